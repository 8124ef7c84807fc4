package mediator

import (
	"context"
	"reflect"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Publisher dispatches a notification to its resolved handlers. It
// knows nothing about what a notification is beyond "a typed message
// with zero or more handlers" — Publish[TNotif] resolves those handlers
// and hands them to the active Publisher as already-bound no-argument
// calls, the same separation the teacher draws between its Router and
// its hook-firing loop.
type Publisher interface {
	Publish(ctx context.Context, calls []func(context.Context) error) error
}

// Sequential runs handlers one at a time, in registration order,
// stopping at the first error (spec §4.8's default strategy).
type Sequential struct{}

// Publish implements Publisher.
func (Sequential) Publish(ctx context.Context, calls []func(context.Context) error) error {
	for _, call := range calls {
		if err := call(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Parallel runs every handler concurrently and waits for all of them,
// aggregating every failure rather than returning only the first (spec
// §9 open question, resolved in DESIGN.md). Zero handlers and exactly
// one handler both skip goroutine spin-up.
type Parallel struct{}

// Publish implements Publisher.
func (Parallel) Publish(ctx context.Context, calls []func(context.Context) error) error {
	switch len(calls) {
	case 0:
		return nil
	case 1:
		return calls[0](ctx)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var merr *multierror.Error

	wg.Add(len(calls))
	for _, call := range calls {
		call := call
		go func() {
			defer wg.Done()
			if err := call(ctx); err != nil {
				mu.Lock()
				merr = multierror.Append(merr, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if merr == nil {
		return nil
	}
	return merr.ErrorOrNil()
}

// dispatchPublish resolves every NotificationHandler[TNotif] and hands
// them to pub. Notifications never enter the request pipeline: no
// pre/post-processors, no middleware, no exception recovery — a
// handler's error is reported as-is, shaped by the active Publisher.
func dispatchPublish[TNotif Notification](ctx context.Context, loc Locator, hooks *hookSet, pub Publisher, n TNotif) error {
	msgType := reflect.TypeOf(n).String()

	handlers, err := resolveAll[NotificationHandler[TNotif]](loc, "NotificationHandler")
	if err != nil {
		hooks.fireFailure(ctx, msgType, err)
		return err
	}

	hooks.firePublish(ctx, msgType, len(handlers))

	calls := make([]func(context.Context) error, len(handlers))
	for i, h := range handlers {
		h := h
		calls[i] = func(ctx context.Context) error { return h.Handle(ctx, n) }
	}

	if err := pub.Publish(ctx, calls); err != nil {
		hooks.fireFailure(ctx, msgType, err)
		return err
	}
	hooks.fireSuccess(ctx, msgType)
	return nil
}
