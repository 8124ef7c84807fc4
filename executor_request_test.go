package mediator

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type greetReq struct {
	RequestBase[string]
	Name string
}

type greetHandler struct{}

func (greetHandler) Handle(ctx context.Context, req greetReq) (string, error) {
	if req.Name == "" {
		return "", errors.New("name required")
	}
	return "hello, " + req.Name, nil
}

func newTestMediator(t *testing.T, reg *Registry) *Mediator {
	t.Helper()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestSend_HappyPath(t *testing.T) {
	reg := NewRegistry()
	RegisterRequestHandler[greetReq, string](reg, greetHandler{})
	m := newTestMediator(t, reg)

	got, err := Send[greetReq, string](context.Background(), m, greetReq{Name: "ada"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got != "hello, ada" {
		t.Errorf("got %q, want %q", got, "hello, ada")
	}
}

func TestSend_NoHandlerRegistered(t *testing.T) {
	reg := NewRegistry()
	m := newTestMediator(t, reg)

	_, err := Send[greetReq, string](context.Background(), m, greetReq{Name: "ada"})
	if err == nil {
		t.Fatal("expected NoHandler error, got nil")
	}
	var merr *MediatorError
	if !errors.As(err, &merr) || merr.Kind != NoHandler {
		t.Errorf("err = %v, want MediatorError{Kind: NoHandler}", err)
	}
}

func TestSend_PipelineOrder(t *testing.T) {
	reg := NewRegistry()
	RegisterRequestHandler[greetReq, string](reg, greetHandler{})

	var order []string
	RegisterPreProcessor[greetReq, string](reg, PreProcessorFunc[greetReq, string](func(ctx context.Context, req greetReq) error {
		order = append(order, "pre")
		return nil
	}))
	RegisterMiddleware[greetReq, string](reg, RequestMiddlewareFunc[greetReq, string](func(ctx context.Context, req greetReq, next RequestHandlerFunc[greetReq, string]) (string, error) {
		order = append(order, "mw-before")
		resp, err := next(ctx, req)
		order = append(order, "mw-after")
		return resp, err
	}))
	RegisterPostProcessor[greetReq, string](reg, PostProcessorFunc[greetReq, string](func(ctx context.Context, req greetReq, resp string) error {
		order = append(order, "post")
		return nil
	}))

	m := newTestMediator(t, reg)
	if _, err := Send[greetReq, string](context.Background(), m, greetReq{Name: "ada"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := []string{"pre", "mw-before", "mw-after", "post"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSend_MiddlewareShortCircuit(t *testing.T) {
	reg := NewRegistry()

	handlerCalled := false
	postCalled := false
	RegisterRequestHandler[greetReq, string](reg, RequestHandlerFunc[greetReq, string](func(ctx context.Context, req greetReq) (string, error) {
		handlerCalled = true
		return "", nil
	}))
	RegisterMiddleware[greetReq, string](reg, RequestMiddlewareFunc[greetReq, string](func(ctx context.Context, req greetReq, next RequestHandlerFunc[greetReq, string]) (string, error) {
		return "short-circuited", nil // never calls next
	}))
	RegisterPostProcessor[greetReq, string](reg, PostProcessorFunc[greetReq, string](func(ctx context.Context, req greetReq, resp string) error {
		postCalled = true
		return nil
	}))

	m := newTestMediator(t, reg)
	got, err := Send[greetReq, string](context.Background(), m, greetReq{Name: "ada"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got != "short-circuited" {
		t.Errorf("got %q, want %q", got, "short-circuited")
	}
	if handlerCalled {
		t.Error("handler ran despite middleware short-circuit")
	}
	if postCalled {
		t.Error("post-processor ran despite middleware short-circuit")
	}
}

type greetVoidReq struct {
	RequestBase[Unit]
	Name string
}

func TestSendVoid(t *testing.T) {
	reg := NewRegistry()
	var got string
	RegisterRequestHandler[greetVoidReq, Unit](reg, VoidRequestHandlerFunc[greetVoidReq](func(ctx context.Context, req greetVoidReq) error {
		got = req.Name
		return nil
	}))
	m := newTestMediator(t, reg)

	if err := SendVoid[greetVoidReq](context.Background(), m, greetVoidReq{Name: "ada"}); err != nil {
		t.Fatalf("SendVoid: %v", err)
	}
	if got != "ada" {
		t.Errorf("got %q, want %q", got, "ada")
	}
}

func TestSend_Determinism(t *testing.T) {
	reg := NewRegistry()
	RegisterRequestHandler[greetReq, string](reg, greetHandler{})
	m := newTestMediator(t, reg)

	for i := 0; i < 5; i++ {
		got, err := Send[greetReq, string](context.Background(), m, greetReq{Name: "ada"})
		if err != nil {
			t.Fatalf("Send iteration %d: %v", i, err)
		}
		if got != "hello, ada" {
			t.Errorf("iteration %d: got %q, want %q", i, got, "hello, ada")
		}
	}
}
