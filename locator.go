package mediator

import "reflect"

// Locator resolves all registered instances of a service type. It is
// the one contract the dispatch engine consumes from the outside world;
// the engine never asks for "the" handler, only for "all" instances, so
// the same contract serves singleton-cardinality roles (request
// handlers) and multi-cardinality roles (pre-processors, middleware,
// exception handlers) identically.
//
// ResolveAll must return an empty, non-nil slice (never an error) when
// nothing is registered for serviceType, and must never place a nil
// element in the returned slice. It may be called many times per
// dispatch and must be safe for concurrent invocation.
type Locator interface {
	ResolveAll(serviceType reflect.Type) ([]any, error)
}

// resolveAllByType is resolveAll with the service type supplied by the
// caller instead of computed via reflect.TypeFor[T]() — the path the
// invoker cache (invoker.go) uses so a warm dispatch never reconstructs
// the service type it already cached. A resolved element that does not
// assert to T surfaces as NoDispatchShape — the Go analogue of
// "reflective lookup of the expected handle method fails" from spec §7.
func resolveAllByType[T any](l Locator, serviceType reflect.Type, role string) ([]T, error) {
	raw, err := l.ResolveAll(serviceType)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, v := range raw {
		typed, ok := v.(T)
		if !ok {
			return nil, newNoDispatchShape(serviceType.String(), role, nil)
		}
		out = append(out, typed)
	}
	return out, nil
}

// resolveOneByType is resolveOne with the service type supplied by the
// caller. See resolveAllByType.
func resolveOneByType[T any](l Locator, serviceType reflect.Type, messageType, role string) (T, error) {
	all, err := resolveAllByType[T](l, serviceType, role)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(all) == 0 {
		var zero T
		return zero, newNoHandler(messageType, role)
	}
	return all[0], nil
}

// resolveAll is the generic-typed helper collaborator lists (pre/post
// processors, middleware) use to turn a Locator's type-erased result
// into a concretely typed slice. Unlike resolveAllByType, it computes
// its own service type via reflect.TypeFor[T]() every call — there is
// no per-message cache for these roles, since a request type's set of
// collaborators is looked up by (TReq, TRes) directly, not amortized
// across an invoker binding.
func resolveAll[T any](l Locator, role string) ([]T, error) {
	return resolveAllByType[T](l, reflect.TypeFor[T](), role)
}

// resolveOne resolves exactly the first registered instance of T,
// surfacing NoHandler (with messageType/role for diagnosability) when
// nothing is registered.
func resolveOne[T any](l Locator, messageType, role string) (T, error) {
	return resolveOneByType[T](l, reflect.TypeFor[T](), messageType, role)
}
