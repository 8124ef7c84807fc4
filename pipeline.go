package mediator

import (
	"context"
	"iter"
)

// composeRequest builds the onion of pre-processors, middleware, the
// terminal handler, and post-processors described in spec §4.4.
//
// inner starts as "call the handler, then run post-processors over its
// result" and is wrapped by each middleware from the last registered to
// the first, so that after the fold the first registered middleware is
// outermost. The returned function still needs pre-processors run
// ahead of it; composeRequest folds those in too so the caller gets one
// callable for the whole pipeline.
func composeRequest[TReq Request[TRes], TRes any](
	pre []PreProcessor[TReq, TRes],
	mws []RequestMiddleware[TReq, TRes],
	handler RequestHandlerFunc[TReq, TRes],
	post []PostProcessor[TReq, TRes],
) RequestHandlerFunc[TReq, TRes] {
	inner := RequestHandlerFunc[TReq, TRes](func(ctx context.Context, req TReq) (TRes, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			var zero TRes
			return zero, err
		}
		for _, p := range post {
			if err := p.Process(ctx, req, resp); err != nil {
				var zero TRes
				return zero, err
			}
		}
		return resp, nil
	})

	for i := len(mws) - 1; i >= 0; i-- {
		mw := mws[i]
		next := inner
		inner = func(ctx context.Context, req TReq) (TRes, error) {
			return mw.Handle(ctx, req, next)
		}
	}

	head := inner
	return func(ctx context.Context, req TReq) (TRes, error) {
		for _, p := range pre {
			if err := p.Process(ctx, req); err != nil {
				var zero TRes
				return zero, err
			}
		}
		return head(ctx, req)
	}
}

// composeStream builds the middleware onion over the terminal stream
// handler (spec §4.4's stream variant: no post-processors). Running
// pre-processors is the stream executor's job (C7), not this composer's
// — unlike the request path, nothing here runs until the executor's
// generator body is actually ranged over, so "run pre-processors, then
// build the pipeline" has to happen lazily, inside that body, where a
// pre-processor failure can still be offered to the exception processor
// before the first element is produced.
func composeStream[TReq StreamRequest[TRes], TRes any](
	mws []StreamMiddleware[TReq, TRes],
	handler StreamHandlerFunc[TReq, TRes],
) StreamHandlerFunc[TReq, TRes] {
	inner := handler

	for i := len(mws) - 1; i >= 0; i-- {
		mw := mws[i]
		next := inner
		inner = func(ctx context.Context, req TReq) iter.Seq2[TRes, error] {
			return mw.Handle(ctx, req, next)
		}
	}

	return inner
}
