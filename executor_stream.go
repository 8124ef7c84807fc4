package mediator

import (
	"context"
	"iter"
	"reflect"
)

// StreamOption configures a single CreateStream call.
type StreamOption func(*streamConfig)

type streamConfig struct {
	enumerationCtx context.Context
}

// WithEnumerationContext supplies a second context that is merged with
// the call's ctx: the stream is cancelled when either is done. This is
// the Go-native stand-in for passing two independent cancellation
// tokens to an async-enumerable call — one for the call itself, one for
// how long the caller intends to keep enumerating (spec §4.7).
func WithEnumerationContext(enumCtx context.Context) StreamOption {
	return func(c *streamConfig) { c.enumerationCtx = enumCtx }
}

// mergeCtx returns a context that is done when either a or b is done,
// along with a cancel func the caller must invoke once it no longer
// needs the merged context, to release the background goroutine. If b
// is nil, a is returned unchanged and cancel is a no-op.
func mergeCtx(a, b context.Context) (context.Context, func()) {
	if b == nil {
		return a, func() {}
	}
	merged, cancel := context.WithCancel(a)
	stop := make(chan struct{})
	go func() {
		select {
		case <-a.Done():
		case <-b.Done():
			cancel()
		case <-stop:
		}
	}()
	return merged, func() {
		close(stop)
		cancel()
	}
}

// dispatchStream drives one create-stream dispatch (spec §4.7): resolve
// collaborators, build the initial sequence — with exception recovery
// available even for that initial build — then produce elements one at
// a time, recovering mid-iteration failures by swapping to a recovered
// sequence and continuing, or running actions and surfacing the failure
// as a terminal (zero, err) pair.
//
// The returned iter.Seq2 is lazy: nothing above runs until the caller
// starts ranging over it, consistent with CreateStream never doing work
// synchronously (spec §4.7's async-enumerable semantics have no
// Go-native "start immediately" equivalent, and none is wanted: ranging
// over the result is this module's enumeration).
func dispatchStream[TReq StreamRequest[TRes], TRes any](
	ctx context.Context, loc Locator, hooks *hookSet, req TReq, opts ...StreamOption,
) func(yield func(TRes, error) bool) {
	cfg := &streamConfig{}
	for _, o := range opts {
		o(cfg)
	}

	return func(yield func(TRes, error) bool) {
		msgReflectType := reflect.TypeOf(req)
		msgType := msgReflectType.String()

		runCtx, cancel := mergeCtx(ctx, cfg.enumerationCtx)
		defer cancel()

		inv := loadOrBuildInvoker(msgReflectType, streamHandlerType[TReq, TRes])

		handler, err := resolveOneByType[StreamHandler[TReq, TRes]](loc, inv.serviceType, msgType, inv.role)
		if err != nil {
			hooks.fireFailure(runCtx, msgType, err)
			yield(*new(TRes), err)
			return
		}
		pre, err := resolveAll[StreamPreProcessor[TReq, TRes]](loc, "StreamPreProcessor")
		if err != nil {
			hooks.fireFailure(runCtx, msgType, err)
			yield(*new(TRes), err)
			return
		}
		mws, err := resolveAll[StreamMiddleware[TReq, TRes]](loc, "StreamMiddleware")
		if err != nil {
			hooks.fireFailure(runCtx, msgType, err)
			yield(*new(TRes), err)
			return
		}

		base := StreamHandlerFunc[TReq, TRes](func(ctx context.Context, req TReq) iter.Seq2[TRes, error] {
			hooks.fireHandle(ctx, msgType)
			return handler.Handle(ctx, req)
		})
		pipeline := composeStream(mws, base)

		hooks.firePreProcess(runCtx, msgType)

		// buildInitial runs pre-processors and constructs the pipeline's
		// sequence, with exception recovery available on failure — the
		// one piece spec §4.7 step 2 requires composeStream itself cannot
		// offer, since it has no Locator to consult.
		buildInitial := func() (seq func(func(TRes, error) bool), buildErr error) {
			for _, p := range pre {
				if perr := p.Process(runCtx, req); perr != nil {
					recovered, rseq, rerr := processStreamException[TReq, TRes](runCtx, loc, req, perr, hooks)
					if rerr != nil {
						hooks.fireFailure(runCtx, msgType, rerr)
						return nil, rerr
					}
					if recovered {
						hooks.fireRecovered(runCtx, msgType, perr)
						return rseq, nil
					}
					hooks.fireFailure(runCtx, msgType, perr)
					return nil, perr
				}
			}
			return pipeline(runCtx, req), nil
		}

		current, buildErr := buildInitial()
		if buildErr != nil {
			yield(*new(TRes), buildErr)
			return
		}

		for {
			var pendingErr error

			current(func(v TRes, elemErr error) bool {
				if elemErr == nil {
					return yield(v, nil)
				}
				pendingErr = elemErr
				return false
			})

			if pendingErr == nil {
				hooks.fireSuccess(runCtx, msgType)
				return
			}

			recovered, rseq, rerr := processStreamException[TReq, TRes](runCtx, loc, req, pendingErr, hooks)
			if rerr != nil {
				hooks.fireFailure(runCtx, msgType, rerr)
				yield(*new(TRes), rerr)
				return
			}
			if !recovered {
				hooks.fireFailure(runCtx, msgType, pendingErr)
				yield(*new(TRes), pendingErr)
				return
			}

			hooks.fireRecovered(runCtx, msgType, pendingErr)
			current = rseq
		}
	}
}
