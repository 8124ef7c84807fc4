package mediator

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// invokerEntry is the cached, one-time-built binding for a concrete
// message type: the service type its handler must implement (used
// directly as the Locator.ResolveAll key on every dispatch, via
// resolveOneByType/resolveAllByType) and that service type's name
// pre-formatted for error messages. It carries no callable, because a
// generic entry point (Send[TReq,TRes]/CreateStream[TReq,TRes]/...)
// already performs a direct, unboxed interface call for TReq/TRes fixed
// at the call site — the one thing left to amortize across repeat
// dispatches of the same concrete type is this binding (which otherwise
// requires a reflect.TypeFor[RequestHandler[TReq,TRes]]() call per
// dispatch), not the call itself.
type invokerEntry struct {
	serviceType reflect.Type
	role        string
}

var (
	invokerCache  sync.Map // reflect.Type (message type) -> *invokerEntry
	invokerBuilds atomic.Int64
)

// invokerBuildCount reports how many invoker entries have been built
// (i.e. cache misses) since process start. Exposed for tests asserting
// testable property #10 (no reflective lookup after warm-up).
func invokerBuildCount() int64 {
	return invokerBuilds.Load()
}

// loadOrBuildInvoker returns the cached entry for msgType, calling build
// to compute the (serviceType, role) pair and inserting it on first use
// only. build is a reflect.TypeFor[...] call wrapped in a closure —
// callers must not call it themselves on the warm path; the whole point
// of this cache is that build runs exactly once per distinct msgType,
// not once per dispatch. Insertion is idempotent: two concurrent builds
// for the same msgType both produce value-equal entries, so a benign
// race resolves via LoadOrStore, which keeps the first stored entry and
// returns it to every caller.
func loadOrBuildInvoker(msgType reflect.Type, build func() (reflect.Type, string)) *invokerEntry {
	if v, ok := invokerCache.Load(msgType); ok {
		return v.(*invokerEntry)
	}
	serviceType, role := build()
	entry := &invokerEntry{serviceType: serviceType, role: role}
	actual, loaded := invokerCache.LoadOrStore(msgType, entry)
	if !loaded {
		invokerBuilds.Add(1)
	}
	return actual.(*invokerEntry)
}

// requestHandlerType names the dispatch-table service type for
// send-for-response and send-void (C3): RequestHandler[TReq, TRes].
func requestHandlerType[TReq Request[TRes], TRes any]() (reflect.Type, string) {
	t := reflect.TypeFor[RequestHandler[TReq, TRes]]()
	return t, t.String()
}

// streamHandlerType names the dispatch-table service type for
// create-stream (C3): StreamHandler[TReq, TRes].
func streamHandlerType[TReq StreamRequest[TRes], TRes any]() (reflect.Type, string) {
	t := reflect.TypeFor[StreamHandler[TReq, TRes]]()
	return t, t.String()
}
