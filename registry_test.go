package mediator

import (
	"context"
	"reflect"
	"testing"
)

type pingReq struct {
	RequestBase[string]
	Name string
}

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, req pingReq) (string, error) {
	return "pong " + req.Name, nil
}

func TestRegistry_RequestHandler_FirstWins(t *testing.T) {
	r := NewRegistry()
	RegisterRequestHandler[pingReq, string](r, pingHandler{})
	RegisterRequestHandler[pingReq, string](r, RequestHandlerFunc[pingReq, string](func(ctx context.Context, req pingReq) (string, error) {
		return "second", nil
	}))

	st := reflect.TypeFor[RequestHandler[pingReq, string]]()
	got, err := r.ResolveAll(st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d handlers, want 1", len(got))
	}
	h := got[0].(RequestHandler[pingReq, string])
	resp, _ := h.Handle(context.Background(), pingReq{Name: "a"})
	if resp != "pong a" {
		t.Errorf("resolved handler = %q, want %q (first registration should win)", resp, "pong a")
	}
}

func TestRegistry_Middleware_AddDistinct(t *testing.T) {
	r := NewRegistry()
	var calls []string

	mwA := RequestMiddlewareFunc[pingReq, string](func(ctx context.Context, req pingReq, next RequestHandlerFunc[pingReq, string]) (string, error) {
		calls = append(calls, "a")
		return next(ctx, req)
	})
	mwB := RequestMiddlewareFunc[pingReq, string](func(ctx context.Context, req pingReq, next RequestHandlerFunc[pingReq, string]) (string, error) {
		calls = append(calls, "b")
		return next(ctx, req)
	})

	RegisterMiddleware[pingReq, string](r, mwA)
	RegisterMiddleware[pingReq, string](r, mwA) // same concrete type, collapses
	RegisterMiddleware[pingReq, string](r, mwB)

	mws, err := resolveAll[RequestMiddleware[pingReq, string]](r, "RequestMiddleware")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mws) != 1 {
		t.Fatalf("got %d middleware, want 1 (mwA and mwB share a func type)", len(mws))
	}
}

func TestRegistry_ResolveAll_EmptyIsNonNil(t *testing.T) {
	r := NewRegistry()
	out, err := r.ResolveAll(reflect.TypeFor[RequestHandler[pingReq, string]]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == nil {
		t.Error("ResolveAll returned nil slice for an unregistered type, want empty non-nil slice")
	}
	if len(out) != 0 {
		t.Errorf("got %d entries, want 0", len(out))
	}
}
