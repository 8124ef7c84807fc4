package mediator

import "context"

// hookSet collects the ambient observability callbacks a Mediator was
// built with. Every field is optional; a nil field is simply not
// called. This mirrors the teacher's hooks.go: functional options over
// a single internal struct rather than an events/metrics dependency,
// since the pipeline stages here are this module's own vocabulary, not
// a generic transport's.
type hookSet struct {
	onPreProcess []func(ctx context.Context, messageType string)
	onHandle     []func(ctx context.Context, messageType string)
	onSuccess    []func(ctx context.Context, messageType string)
	onFailure    []func(ctx context.Context, messageType string, err error)
	onRecovered  []func(ctx context.Context, messageType string, err error)
	onActionFail []func(ctx context.Context, err error)
	onPublish    []func(ctx context.Context, messageType string, handlerCount int)
}

// Option configures a Mediator's ambient hooks. Options compose: each
// call appends to the relevant slice rather than replacing it, so a
// caller can register independent observers (e.g. one for metrics, one
// for tracing) without them stepping on each other.
type Option func(*hookSet)

// WithOnPreProcess registers a callback fired immediately before a
// request's pre-processors run.
func WithOnPreProcess(fn func(ctx context.Context, messageType string)) Option {
	return func(h *hookSet) { h.onPreProcess = append(h.onPreProcess, fn) }
}

// WithOnHandle registers a callback fired immediately before the
// terminal handler runs (after pre-processors, inside the middleware
// onion).
func WithOnHandle(fn func(ctx context.Context, messageType string)) Option {
	return func(h *hookSet) { h.onHandle = append(h.onHandle, fn) }
}

// WithOnSuccess registers a callback fired when a dispatch completes
// without an unrecovered error, whether or not recovery occurred.
func WithOnSuccess(fn func(ctx context.Context, messageType string)) Option {
	return func(h *hookSet) { h.onSuccess = append(h.onSuccess, fn) }
}

// WithOnFailure registers a callback fired when a dispatch ultimately
// fails — either with no exception handler resolving it, or with the
// error propagating from Send/SendVoid/CreateStream itself.
func WithOnFailure(fn func(ctx context.Context, messageType string, err error)) Option {
	return func(h *hookSet) { h.onFailure = append(h.onFailure, fn) }
}

// WithOnRecovered registers a callback fired when an exception handler
// or stream exception handler marks a failure handled.
func WithOnRecovered(fn func(ctx context.Context, messageType string, err error)) Option {
	return func(h *hookSet) { h.onRecovered = append(h.onRecovered, fn) }
}

// WithOnPublish registers a callback fired before a notification is
// dispatched to its handlers, reporting how many handlers will receive
// it (possibly zero).
func WithOnPublish(fn func(ctx context.Context, messageType string, handlerCount int)) Option {
	return func(h *hookSet) { h.onPublish = append(h.onPublish, fn) }
}

func (h *hookSet) firePreProcess(ctx context.Context, messageType string) {
	if h == nil {
		return
	}
	for _, fn := range h.onPreProcess {
		fn(ctx, messageType)
	}
}

func (h *hookSet) fireHandle(ctx context.Context, messageType string) {
	if h == nil {
		return
	}
	for _, fn := range h.onHandle {
		fn(ctx, messageType)
	}
}

func (h *hookSet) fireSuccess(ctx context.Context, messageType string) {
	if h == nil {
		return
	}
	for _, fn := range h.onSuccess {
		fn(ctx, messageType)
	}
}

func (h *hookSet) fireFailure(ctx context.Context, messageType string, err error) {
	if h == nil {
		return
	}
	for _, fn := range h.onFailure {
		fn(ctx, messageType, err)
	}
}

func (h *hookSet) fireRecovered(ctx context.Context, messageType string, err error) {
	if h == nil {
		return
	}
	for _, fn := range h.onRecovered {
		fn(ctx, messageType, err)
	}
}

func (h *hookSet) fireActionFailure(ctx context.Context, err error) {
	if h == nil {
		return
	}
	for _, fn := range h.onActionFail {
		fn(ctx, err)
	}
}

func (h *hookSet) firePublish(ctx context.Context, messageType string, handlerCount int) {
	if h == nil {
		return
	}
	for _, fn := range h.onPublish {
		fn(ctx, messageType, handlerCount)
	}
}

// WithOnActionFailure registers a callback fired when an exception
// action itself returns an error. Actions never suppress the original
// rethrow (see DESIGN.md); this is the only way to observe an action's
// own failure.
func WithOnActionFailure(fn func(ctx context.Context, err error)) Option {
	return func(h *hookSet) { h.onActionFail = append(h.onActionFail, fn) }
}
