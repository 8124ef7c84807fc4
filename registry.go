package mediator

import (
	"reflect"
	"sync"
)

// Registry is a ready-to-use in-memory Locator. It performs no
// component-discovery scanning of its own — callers register explicitly,
// the same way the teacher package's Router requires an explicit
// dispatch.Register call per handler — but it does enforce the
// cardinality rules spec §6 mandates:
//
//   - RegisterRequestHandler and RegisterStreamHandler are first-wins:
//     a second registration for the same concrete (request, response)
//     pair is silently ignored.
//   - Every other Register* function is add-distinct: registering a
//     value whose concrete type already has an entry for that role
//     collapses to one. Because Go function types are structural, two
//     different closures passed as the same *Func adapter type share a
//     reflect.Type and will collapse to one registration; give each a
//     named type (or a small struct) if more than one needs to coexist.
//
// Registry is safe for concurrent ResolveAll calls and concurrent
// Register* calls, including races between the two — registration is
// typically finished before the first dispatch, but nothing requires it.
type Registry struct {
	mu      sync.RWMutex
	singles map[reflect.Type]any
	multis  map[reflect.Type][]multiEntry
}

type multiEntry struct {
	valueType reflect.Type
	value     any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		singles: make(map[reflect.Type]any),
		multis:  make(map[reflect.Type][]multiEntry),
	}
}

// ResolveAll implements Locator. It returns an empty, non-nil slice
// when nothing is registered for serviceType.
func (r *Registry) ResolveAll(serviceType reflect.Type) ([]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.singles[serviceType]; ok {
		return []any{v}, nil
	}
	entries := r.multis[serviceType]
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.value)
	}
	return out, nil
}

func registerSingle[T any](r *Registry, value T) {
	st := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.singles[st]; exists {
		return
	}
	r.singles[st] = value
}

func registerMulti[T any](r *Registry, value T) {
	registerMultiKeyed[T](r, reflect.TypeOf(value), value)
}

// registerMultiKeyed is registerMulti with an explicit dedupe key. Used
// where the stored value is a type-erasure wrapper (see exception.go)
// whose own reflect.Type is the same for every registration regardless
// of the concrete handler it wraps — the dedupe key there is the
// wrapped handler's type, not the wrapper's.
func registerMultiKeyed[T any](r *Registry, distinctKey reflect.Type, value T) {
	st := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.multis[st] {
		if e.valueType == distinctKey {
			return
		}
	}
	r.multis[st] = append(r.multis[st], multiEntry{valueType: distinctKey, value: value})
}

// RegisterRequestHandler registers the terminal handler for TReq.
// First-wins: a second call for the same TReq is ignored.
func RegisterRequestHandler[TReq Request[TRes], TRes any](r *Registry, h RequestHandler[TReq, TRes]) {
	registerSingle[RequestHandler[TReq, TRes]](r, h)
}

// RegisterStreamHandler registers the terminal stream handler for TReq.
// First-wins: a second call for the same TReq is ignored.
func RegisterStreamHandler[TReq StreamRequest[TRes], TRes any](r *Registry, h StreamHandler[TReq, TRes]) {
	registerSingle[StreamHandler[TReq, TRes]](r, h)
}

// RegisterPreProcessor adds a pre-processor for TReq. Add-distinct.
func RegisterPreProcessor[TReq Request[TRes], TRes any](r *Registry, p PreProcessor[TReq, TRes]) {
	registerMulti[PreProcessor[TReq, TRes]](r, p)
}

// RegisterPostProcessor adds a post-processor for TReq. Add-distinct.
func RegisterPostProcessor[TReq Request[TRes], TRes any](r *Registry, p PostProcessor[TReq, TRes]) {
	registerMulti[PostProcessor[TReq, TRes]](r, p)
}

// RegisterMiddleware adds a request middleware for TReq. Add-distinct.
// First registered is outermost.
func RegisterMiddleware[TReq Request[TRes], TRes any](r *Registry, mw RequestMiddleware[TReq, TRes]) {
	registerMulti[RequestMiddleware[TReq, TRes]](r, mw)
}

// RegisterStreamPreProcessor adds a stream pre-processor for TReq. Add-distinct.
func RegisterStreamPreProcessor[TReq StreamRequest[TRes], TRes any](r *Registry, p StreamPreProcessor[TReq, TRes]) {
	registerMulti[StreamPreProcessor[TReq, TRes]](r, p)
}

// RegisterStreamMiddleware adds a stream middleware for TReq. Add-distinct.
// First registered is outermost.
func RegisterStreamMiddleware[TReq StreamRequest[TRes], TRes any](r *Registry, mw StreamMiddleware[TReq, TRes]) {
	registerMulti[StreamMiddleware[TReq, TRes]](r, mw)
}

// RegisterNotificationHandler adds a notification handler for TNotif.
// Add-distinct. Zero or more may be registered.
func RegisterNotificationHandler[TNotif Notification](r *Registry, h NotificationHandler[TNotif]) {
	registerMulti[NotificationHandler[TNotif]](r, h)
}
