package mediator

import (
	"context"
	"iter"
)

// StreamRequest is a marker that associates a request type with the
// element type of the lazy sequence its handler produces. Embed
// StreamRequestBase[TRes] to implement it.
type StreamRequest[TRes any] interface {
	isStreamRequest(*TRes)
}

// StreamRequestBase implements StreamRequest[TRes] for an embedding
// struct.
type StreamRequestBase[TRes any] struct{}

func (StreamRequestBase[TRes]) isStreamRequest(*TRes) {}

// StreamHandler produces the lazy sequence for a stream request. Handle
// itself should do no work beyond constructing the sequence: all real
// work (including any error the handler wants to raise) belongs inside
// the iter.Seq2 body, since CreateStream never runs anything until the
// caller starts ranging over the result.
type StreamHandler[TReq StreamRequest[TRes], TRes any] interface {
	Handle(ctx context.Context, req TReq) iter.Seq2[TRes, error]
}

// StreamHandlerFunc adapts a function to StreamHandler.
type StreamHandlerFunc[TReq StreamRequest[TRes], TRes any] func(ctx context.Context, req TReq) iter.Seq2[TRes, error]

// Handle implements StreamHandler.
func (f StreamHandlerFunc[TReq, TRes]) Handle(ctx context.Context, req TReq) iter.Seq2[TRes, error] {
	return f(ctx, req)
}

// StreamPreProcessor observes a stream request before the handler's
// sequence starts producing elements.
type StreamPreProcessor[TReq StreamRequest[TRes], TRes any] interface {
	Process(ctx context.Context, req TReq) error
}

// StreamPreProcessorFunc adapts a function to StreamPreProcessor.
type StreamPreProcessorFunc[TReq StreamRequest[TRes], TRes any] func(ctx context.Context, req TReq) error

// Process implements StreamPreProcessor.
func (f StreamPreProcessorFunc[TReq, TRes]) Process(ctx context.Context, req TReq) error {
	return f(ctx, req)
}

// StreamMiddleware wraps a stream handler. It may decline to call next
// and return its own sequence instead, short-circuiting downstream
// middleware and the terminal handler.
type StreamMiddleware[TReq StreamRequest[TRes], TRes any] interface {
	Handle(ctx context.Context, req TReq, next StreamHandlerFunc[TReq, TRes]) iter.Seq2[TRes, error]
}

// StreamMiddlewareFunc adapts a function to StreamMiddleware.
type StreamMiddlewareFunc[TReq StreamRequest[TRes], TRes any] func(ctx context.Context, req TReq, next StreamHandlerFunc[TReq, TRes]) iter.Seq2[TRes, error]

// Handle implements StreamMiddleware.
func (f StreamMiddlewareFunc[TReq, TRes]) Handle(ctx context.Context, req TReq, next StreamHandlerFunc[TReq, TRes]) iter.Seq2[TRes, error] {
	return f(ctx, req, next)
}
