package mediator

import "context"

// RequestHandler produces the response for a request. Exactly one must
// be registered per concrete request type; dispatching without one
// fails with a NoHandler error.
type RequestHandler[TReq Request[TRes], TRes any] interface {
	Handle(ctx context.Context, req TReq) (TRes, error)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc[TReq Request[TRes], TRes any] func(ctx context.Context, req TReq) (TRes, error)

// Handle implements RequestHandler.
func (f RequestHandlerFunc[TReq, TRes]) Handle(ctx context.Context, req TReq) (TRes, error) {
	return f(ctx, req)
}

// VoidRequestHandlerFunc adapts a function with no response to the
// Unit-shaped RequestHandler used by SendVoid.
func VoidRequestHandlerFunc[TReq Request[Unit]](fn func(ctx context.Context, req TReq) error) RequestHandlerFunc[TReq, Unit] {
	return func(ctx context.Context, req TReq) (Unit, error) {
		return Unit{}, fn(ctx, req)
	}
}

// PreProcessor observes a request before the handler and any
// middleware run. Pre-processors fire in registration order and
// happen-before the middleware chain.
type PreProcessor[TReq Request[TRes], TRes any] interface {
	Process(ctx context.Context, req TReq) error
}

// PreProcessorFunc adapts a function to PreProcessor.
type PreProcessorFunc[TReq Request[TRes], TRes any] func(ctx context.Context, req TReq) error

// Process implements PreProcessor.
func (f PreProcessorFunc[TReq, TRes]) Process(ctx context.Context, req TReq) error {
	return f(ctx, req)
}

// PostProcessor observes a request and its response after the handler
// succeeds. Post-processors fire in registration order, and are
// skipped entirely if an outer middleware short-circuits before
// reaching the handler.
type PostProcessor[TReq Request[TRes], TRes any] interface {
	Process(ctx context.Context, req TReq, resp TRes) error
}

// PostProcessorFunc adapts a function to PostProcessor.
type PostProcessorFunc[TReq Request[TRes], TRes any] func(ctx context.Context, req TReq, resp TRes) error

// Process implements PostProcessor.
func (f PostProcessorFunc[TReq, TRes]) Process(ctx context.Context, req TReq, resp TRes) error {
	return f(ctx, req, resp)
}

// RequestMiddleware wraps the handler call. The first registered
// middleware is outermost; a middleware that returns without invoking
// next short-circuits everything inside it, including post-processors.
type RequestMiddleware[TReq Request[TRes], TRes any] interface {
	Handle(ctx context.Context, req TReq, next RequestHandlerFunc[TReq, TRes]) (TRes, error)
}

// RequestMiddlewareFunc adapts a function to RequestMiddleware.
type RequestMiddlewareFunc[TReq Request[TRes], TRes any] func(ctx context.Context, req TReq, next RequestHandlerFunc[TReq, TRes]) (TRes, error)

// Handle implements RequestMiddleware.
func (f RequestMiddlewareFunc[TReq, TRes]) Handle(ctx context.Context, req TReq, next RequestHandlerFunc[TReq, TRes]) (TRes, error) {
	return f(ctx, req, next)
}
