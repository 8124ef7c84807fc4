package mediator

import (
	"context"
	"errors"
	"iter"
	"reflect"
)

// RecoveryState is passed by reference into request exception handlers.
// Marking it handled stops the hierarchy walk (spec §3, §4.5): later
// handlers for that failure are not invoked, and the supplied value
// becomes the caller's result instead of the original error.
type RecoveryState[TRes any] struct {
	handled bool
	value   TRes
}

// MarkHandled records the recovery value and terminates the walk.
func (s *RecoveryState[TRes]) MarkHandled(value TRes) {
	s.handled = true
	s.value = value
}

// IsHandled reports whether a handler already recovered this failure.
func (s *RecoveryState[TRes]) IsHandled() bool { return s.handled }

// ExceptionHandler may recover a request failure with a replacement
// response. TErr is matched against the error's Unwrap chain via
// errors.As (see SPEC_FULL.md §0) — register against the most specific
// error type the handler knows how to recover; it need not be the
// terminal handler's top-level error, only somewhere in its chain.
type ExceptionHandler[TReq Request[TRes], TRes any, TErr error] interface {
	Handle(ctx context.Context, req TReq, err TErr, state *RecoveryState[TRes]) error
}

// ExceptionHandlerFunc adapts a function to ExceptionHandler.
type ExceptionHandlerFunc[TReq Request[TRes], TRes any, TErr error] func(ctx context.Context, req TReq, err TErr, state *RecoveryState[TRes]) error

// Handle implements ExceptionHandler.
func (f ExceptionHandlerFunc[TReq, TRes, TErr]) Handle(ctx context.Context, req TReq, err TErr, state *RecoveryState[TRes]) error {
	return f(ctx, req, err, state)
}

// asChainedError finds the first error in err's chain assignable to
// TErr — the same errors.As traversal errors.Is/As callers use, so a
// handler registered for a wrapped ancestor type (not just err's own
// top-level type) still matches.
func asChainedError[TErr error](err error) (TErr, bool) {
	var typed TErr
	if errors.As(err, &typed) {
		return typed, true
	}
	return typed, false
}

// StreamRecoveryState is the stream-flavored recovery capability:
// "mark-handled-with-stream" rather than "mark-handled-with-value"
// (spec §4.5).
type StreamRecoveryState[TRes any] struct {
	handled bool
	seq     iter.Seq2[TRes, error]
}

// MarkHandled records the replacement sequence and terminates the walk.
func (s *StreamRecoveryState[TRes]) MarkHandled(seq iter.Seq2[TRes, error]) {
	s.handled = true
	s.seq = seq
}

// IsHandled reports whether a handler already recovered this failure.
func (s *StreamRecoveryState[TRes]) IsHandled() bool { return s.handled }

// StreamExceptionHandler may recover a stream failure — initial build or
// mid-iteration — with a replacement sequence.
type StreamExceptionHandler[TReq StreamRequest[TRes], TRes any, TErr error] interface {
	Handle(ctx context.Context, req TReq, err TErr, state *StreamRecoveryState[TRes]) error
}

// StreamExceptionHandlerFunc adapts a function to StreamExceptionHandler.
type StreamExceptionHandlerFunc[TReq StreamRequest[TRes], TRes any, TErr error] func(ctx context.Context, req TReq, err TErr, state *StreamRecoveryState[TRes]) error

// Handle implements StreamExceptionHandler.
func (f StreamExceptionHandlerFunc[TReq, TRes, TErr]) Handle(ctx context.Context, req TReq, err TErr, state *StreamRecoveryState[TRes]) error {
	return f(ctx, req, err, state)
}

// ExceptionAction observes an unrecovered failure for side effects. It
// cannot mark anything handled and cannot prevent the rethrow (spec
// §4.5). It is shared between the request and stream paths since it is
// typed against (TReq, TErr) only, with no response shape.
type ExceptionAction[TReq any, TErr error] interface {
	Handle(ctx context.Context, req TReq, err TErr) error
}

// ExceptionActionFunc adapts a function to ExceptionAction.
type ExceptionActionFunc[TReq any, TErr error] func(ctx context.Context, req TReq, err TErr) error

// Handle implements ExceptionAction.
func (f ExceptionActionFunc[TReq, TErr]) Handle(ctx context.Context, req TReq, err TErr) error {
	return f(ctx, req, err)
}

// --- type-erased storage ---------------------------------------------
//
// Go cannot construct a generic interface instantiated with a
// runtime-only type argument (there is no reflect equivalent of C#'s
// Type.MakeGenericType for this), so ExceptionHandler[TReq,TRes,TErr]
// cannot itself be the Locator service type once TErr is only known
// from the error's dynamic type during the hierarchy walk. Instead,
// registration captures TErr in a closure at the one point it actually
// is a compile-time type parameter, and the closures for all TErr under
// a given (TReq,TRes) share one Locator service type (the entry struct
// type, e.g. requestExceptionEntry[TReq,TRes]) so a single ResolveAll
// resolves every exception handler for that request/response pair; the
// hierarchy walk then filters the already-resolved entries by errType
// itself, in Go code, preserving resolution order within each type
// tier. Nothing is cached: the entries are resolved and filtered again
// for every failure. The *Slot marker types only supply the role name
// used in error messages.

type requestExceptionSlot[TReq Request[TRes], TRes any] struct{}

type requestExceptionEntry[TReq Request[TRes], TRes any] struct {
	errType reflect.Type
	invoke  func(ctx context.Context, req TReq, err error, state *RecoveryState[TRes]) error
}

type streamExceptionSlot[TReq StreamRequest[TRes], TRes any] struct{}

type streamExceptionEntry[TReq StreamRequest[TRes], TRes any] struct {
	errType reflect.Type
	invoke  func(ctx context.Context, req TReq, err error, state *StreamRecoveryState[TRes]) error
}

type exceptionActionSlot[TReq any] struct{}

type exceptionActionEntry[TReq any] struct {
	errType reflect.Type
	invoke  func(ctx context.Context, req TReq, err error) error
}

// RegisterExceptionHandler adds a request-flavored exception handler
// recovering TErr failures of TReq. Add-distinct by the handler's own
// concrete type.
func RegisterExceptionHandler[TReq Request[TRes], TRes any, TErr error](r *Registry, h ExceptionHandler[TReq, TRes, TErr]) {
	entry := requestExceptionEntry[TReq, TRes]{
		errType: reflect.TypeFor[TErr](),
		invoke: func(ctx context.Context, req TReq, err error, state *RecoveryState[TRes]) error {
			typed, ok := asChainedError[TErr](err)
			if !ok {
				return nil
			}
			return h.Handle(ctx, req, typed, state)
		},
	}
	registerMultiKeyed[requestExceptionEntry[TReq, TRes]](r, reflect.TypeOf(h), entry)
}

// RegisterStreamExceptionHandler adds a stream-flavored exception
// handler recovering TErr failures of TReq. Add-distinct by the
// handler's own concrete type.
func RegisterStreamExceptionHandler[TReq StreamRequest[TRes], TRes any, TErr error](r *Registry, h StreamExceptionHandler[TReq, TRes, TErr]) {
	entry := streamExceptionEntry[TReq, TRes]{
		errType: reflect.TypeFor[TErr](),
		invoke: func(ctx context.Context, req TReq, err error, state *StreamRecoveryState[TRes]) error {
			typed, ok := asChainedError[TErr](err)
			if !ok {
				return nil
			}
			return h.Handle(ctx, req, typed, state)
		},
	}
	registerMultiKeyed[streamExceptionEntry[TReq, TRes]](r, reflect.TypeOf(h), entry)
}

// RegisterExceptionAction adds a side-effect action observing TErr
// failures of TReq. Add-distinct by the action's own concrete type.
func RegisterExceptionAction[TReq any, TErr error](r *Registry, a ExceptionAction[TReq, TErr]) {
	entry := exceptionActionEntry[TReq]{
		errType: reflect.TypeFor[TErr](),
		invoke: func(ctx context.Context, req TReq, err error) error {
			typed, ok := asChainedError[TErr](err)
			if !ok {
				return nil
			}
			return a.Handle(ctx, req, typed)
		},
	}
	registerMultiKeyed[exceptionActionEntry[TReq]](r, reflect.TypeOf(a), entry)
}

// ancestorChain walks err's Unwrap chain from most specific (err
// itself) to least, appending the universal error root if it is not
// already the last element. This is this module's Go-native realization
// of spec §4.5's "enumerate the exception's runtime type and each of
// its ancestor exception types up to the root exception type" — Go has
// no exception class hierarchy, so the chain the thrower built with %w
// stands in for it (see SPEC_FULL.md §0).
func ancestorChain(err error) []reflect.Type {
	var chain []reflect.Type
	rootType := reflect.TypeFor[error]()
	for cur := err; cur != nil; {
		t := reflect.TypeOf(cur)
		if len(chain) == 0 || chain[len(chain)-1] != t {
			chain = append(chain, t)
		}
		u, ok := cur.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cur = u.Unwrap()
	}
	if len(chain) == 0 || chain[len(chain)-1] != rootType {
		chain = append(chain, rootType)
	}
	return chain
}

// processRequestException runs the hierarchy walk for a request or
// void-request failure: handlers first (stopping at the first that
// marks handled), then — only if nothing recovered — every matching
// action, then returns the original err unchanged for the executor to
// rethrow. recovered reports whether state.value should be used.
func processRequestException[TReq Request[TRes], TRes any](
	ctx context.Context, loc Locator, req TReq, err error, hooks *hookSet,
) (recovered bool, value TRes, outErr error) {
	entries, rerr := resolveAll[requestExceptionEntry[TReq, TRes]](loc, reflect.TypeFor[requestExceptionSlot[TReq, TRes]]().String())
	if rerr != nil {
		var zero TRes
		return false, zero, rerr
	}

	state := &RecoveryState[TRes]{}
	for _, t := range ancestorChain(err) {
		for _, e := range entries {
			if e.errType != t {
				continue
			}
			if herr := e.invoke(ctx, req, err, state); herr != nil {
				var zero TRes
				return false, zero, herr
			}
			if state.IsHandled() {
				return true, state.value, nil
			}
		}
	}

	runExceptionActions[TReq](ctx, loc, req, err, hooks)

	var zero TRes
	return false, zero, err
}

// processStreamException mirrors processRequestException for the
// stream-flavored recovery capability.
func processStreamException[TReq StreamRequest[TRes], TRes any](
	ctx context.Context, loc Locator, req TReq, err error, hooks *hookSet,
) (recovered bool, seq iter.Seq2[TRes, error], outErr error) {
	entries, rerr := resolveAll[streamExceptionEntry[TReq, TRes]](loc, reflect.TypeFor[streamExceptionSlot[TReq, TRes]]().String())
	if rerr != nil {
		return false, nil, rerr
	}

	state := &StreamRecoveryState[TRes]{}
	for _, t := range ancestorChain(err) {
		for _, e := range entries {
			if e.errType != t {
				continue
			}
			if herr := e.invoke(ctx, req, err, state); herr != nil {
				return false, nil, herr
			}
			if state.IsHandled() {
				return true, state.seq, nil
			}
		}
	}

	runExceptionActions[TReq](ctx, loc, req, err, hooks)

	return false, nil, err
}

// runExceptionActions walks the same ancestor chain invoking every
// matching action. An action's own error is reported through OnFailure
// (if a hook is configured) and never suppresses or replaces the
// rethrow of the original failure (spec §9 open question, resolved in
// DESIGN.md).
func runExceptionActions[TReq any](ctx context.Context, loc Locator, req TReq, err error, hooks *hookSet) {
	entries, rerr := resolveAll[exceptionActionEntry[TReq]](loc, reflect.TypeFor[exceptionActionSlot[TReq]]().String())
	if rerr != nil {
		return
	}
	for _, t := range ancestorChain(err) {
		for _, e := range entries {
			if e.errType != t {
				continue
			}
			if aerr := e.invoke(ctx, req, err); aerr != nil && hooks != nil {
				hooks.fireActionFailure(ctx, aerr)
			}
		}
	}
}
