package mediator

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies a stable category of error the core itself can
// generate. HandlerFailure, PublisherFailure, and OperationCancelled
// are re-exposed: the core never constructs a *MediatorError of those
// kinds, it only classifies them for documentation purposes (see
// exception.go).
type Kind string

const (
	// InvalidArgument is returned for a nil message/notification or a
	// nil Locator passed to New.
	InvalidArgument Kind = "invalid_argument"
	// NoHandler is returned when no terminal handler is registered for
	// the dispatched message type.
	NoHandler Kind = "no_handler"
	// NoDispatchShape is returned when a resolved collaborator does not
	// implement the interface the dispatch table expected of it. This
	// indicates a registration bug, not a user input error.
	NoDispatchShape Kind = "no_dispatch_shape"
	// HandlerFailure classifies an unrecovered error from user code in
	// a pre-processor, middleware, handler, or post-processor. The core
	// never constructs this kind; it is documentation for callers using
	// errors.Is-style classification on the original error.
	HandlerFailure Kind = "handler_failure"
	// PublisherFailure classifies an error escaping a notification
	// handler under the active Publisher strategy.
	PublisherFailure Kind = "publisher_failure"
	// OperationCancelled classifies a cancellation propagated from a
	// collaborator. The core never generates it.
	OperationCancelled Kind = "operation_cancelled"
)

// MediatorError is the error type for failures the core itself
// originates (InvalidArgument, NoHandler, NoDispatchShape). It carries
// a stack trace (via github.com/pkg/errors) for diagnosability and the
// offending message type and expected role, per spec.
//
// MediatorError is never used to wrap a re-exposed HandlerFailure or
// PublisherFailure: those are returned to the caller as the original,
// unwrapped error value so that error identity is preserved.
type MediatorError struct {
	Kind        Kind
	MessageType string // e.g. "mypkg.CreateOrder"
	Role        string // e.g. "RequestHandler[mypkg.CreateOrder, mypkg.OrderID]"
	cause       error
	stack       error // github.com/pkg/errors-annotated, for Error()/Format()
}

func (e *MediatorError) Error() string {
	if e.stack != nil {
		return e.stack.Error()
	}
	return fmt.Sprintf("mediator: %s", e.Kind)
}

// Unwrap exposes the underlying cause, if any, so errors.Is/As can
// still reach it through a MediatorError.
func (e *MediatorError) Unwrap() error { return e.cause }

// Cause mirrors Unwrap for callers used to github.com/pkg/errors style.
func (e *MediatorError) Cause() error { return e.cause }

func newInvalidArgument(msg string) error {
	return &MediatorError{
		Kind:  InvalidArgument,
		stack: errors.New("mediator: invalid argument: " + msg),
	}
}

func newNoHandler(messageType, role string) error {
	return &MediatorError{
		Kind:        NoHandler,
		MessageType: messageType,
		Role:        role,
		stack: errors.Errorf(
			"mediator: no handler registered for %s (expected %s)",
			messageType, role,
		),
	}
}

func newNoDispatchShape(messageType, role string, cause error) error {
	return &MediatorError{
		Kind:        NoDispatchShape,
		MessageType: messageType,
		Role:        role,
		cause:       cause,
		stack: errors.Wrapf(
			errors.Errorf("resolved collaborator for %s does not implement %s", messageType, role),
			"mediator: internal dispatch-shape error",
		),
	}
}
