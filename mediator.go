package mediator

import (
	"context"
	"iter"
	"reflect"
)

// Mediator is the entry point a caller holds onto: a Locator to resolve
// collaborators against, an active Publisher strategy, and the ambient
// hooks configured at construction. Every dispatch the package exposes
// — Send, SendVoid, CreateStream, Publish — is a package-level generic
// function taking a *Mediator, not a method on it, because Go cannot
// attach additional type parameters (TReq, TRes, TNotif) to a method
// beyond the receiver's own (see SPEC_FULL.md §0).
type Mediator struct {
	locator Locator
	pub     Publisher
	hooks   *hookSet
}

// MediatorOption configures construction-time concerns of a Mediator:
// the Publisher strategy (WithPublisher) and the ambient hooks
// (WithHooks, which takes the hook-level Option values).
type MediatorOption func(*Mediator)

// WithPublisher overrides the default Sequential notification
// strategy.
func WithPublisher(pub Publisher) MediatorOption {
	return func(m *Mediator) { m.pub = pub }
}

// WithHooks attaches ambient observability hooks (see hooks.go) built
// from one or more Option values.
func WithHooks(opts ...Option) MediatorOption {
	return func(m *Mediator) {
		hs := &hookSet{}
		for _, o := range opts {
			o(hs)
		}
		m.hooks = hs
	}
}

// New builds a Mediator over loc. loc must not be nil. The default
// Publisher is Sequential.
func New(loc Locator, opts ...MediatorOption) (*Mediator, error) {
	if loc == nil {
		return nil, newInvalidArgument("locator must not be nil")
	}
	m := &Mediator{locator: loc, pub: Sequential{}}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// isNilMessage reports whether v — boxed as any from a TReq/TNotif type
// parameter — is a nil pointer, interface, map, slice, chan, or func.
// TReq/TNotif are ordinary type parameters, not necessarily concrete
// struct types, so a plain `req == nil` comparison at the call site
// would not catch a nil *SomeRequest or a nil interface value; this is
// also what keeps reflect.TypeOf(req) from being handed a genuinely nil
// interface downstream, which panics on .String().
func isNilMessage(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// Send dispatches req through the full request pipeline — pre-
// processors, middleware, the terminal handler, post-processors — with
// exception recovery on failure, and returns the handler's response.
func Send[TReq Request[TRes], TRes any](ctx context.Context, m *Mediator, req TReq) (TRes, error) {
	if isNilMessage(req) {
		var zero TRes
		return zero, newInvalidArgument("request must not be nil")
	}
	return dispatchRequest[TReq, TRes](ctx, m.locator, m.hooks, req)
}

// SendVoid dispatches req the same way Send does, discarding the
// Unit-shaped response. req's handler must be registered as
// RequestHandler[TReq, Unit] — use VoidRequestHandlerFunc to adapt a
// plain func(ctx, req) error.
func SendVoid[TReq Request[Unit]](ctx context.Context, m *Mediator, req TReq) error {
	if isNilMessage(req) {
		return newInvalidArgument("request must not be nil")
	}
	_, err := dispatchRequest[TReq, Unit](ctx, m.locator, m.hooks, req)
	return err
}

// CreateStream dispatches req through the stream pipeline and returns
// a lazy sequence of elements. Nothing runs until the caller ranges
// over the result (spec §4.7) — CreateStream itself never blocks and
// never returns an error directly; a failure, including a nil req,
// surfaces as the error half of the first yielded pair.
func CreateStream[TReq StreamRequest[TRes], TRes any](ctx context.Context, m *Mediator, req TReq, opts ...StreamOption) iter.Seq2[TRes, error] {
	if isNilMessage(req) {
		err := newInvalidArgument("stream request must not be nil")
		return func(yield func(TRes, error) bool) {
			var zero TRes
			yield(zero, err)
		}
	}
	return dispatchStream[TReq, TRes](ctx, m.locator, m.hooks, req, opts...)
}

// Publish dispatches n to every registered NotificationHandler[TNotif]
// under m's active Publisher strategy. Notifications never enter the
// request pipeline and never offer exception recovery.
func Publish[TNotif Notification](ctx context.Context, m *Mediator, n TNotif) error {
	if isNilMessage(n) {
		return newInvalidArgument("notification must not be nil")
	}
	return dispatchPublish[TNotif](ctx, m.locator, m.hooks, m.pub, n)
}
