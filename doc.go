// Package mediator is an in-process message dispatch runtime.
//
// Application code defines request, stream-request, and notification
// types plus the handlers that serve them; mediator routes each
// dispatched message from sender to the correct handler through a
// composable pre/middleware/post pipeline, with typed exception
// recovery and a lazy, back-pressured streaming path.
//
// # Quick Start
//
// Declare a request and its handler:
//
//	type Greet struct {
//	    mediator.RequestBase[string]
//	    Name string
//	}
//
//	type GreetHandler struct{}
//
//	func (GreetHandler) Handle(ctx context.Context, req Greet) (string, error) {
//	    return "hello, " + req.Name, nil
//	}
//
// Register it against a Locator and dispatch:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterRequestHandler[Greet, string](reg, GreetHandler{})
//
//	m, _ := mediator.New(reg)
//	out, err := mediator.Send[Greet, string](context.Background(), m, Greet{Name: "ada"})
//
// # Pipeline
//
// A dispatch runs pre-processors (in registration order), then an onion
// of middleware behaviors (first registered is outermost), then the
// terminal handler, then post-processors (request only). Any middleware
// may decline to call its next step and return directly — downstream
// middleware, the handler, and post-processors are skipped.
//
// # Streaming
//
// CreateStream returns an iter.Seq2[R, error] lazily: nothing runs until
// the caller ranges over it. Pre-processors and the stream pipeline are
// built on the first pull. A mid-stream failure is offered to the
// exception processor; if a handler recovers with a replacement
// sequence, iteration continues from the replacement with no element
// duplicated or dropped. An unrecovered failure surfaces as the final
// (zero, err) pair yielded to the range loop.
//
// # Exceptions
//
// Exception handlers and actions are matched against the error's
// Unwrap chain, most specific (the thrown error itself) first, ending
// at the universal error root. The first handler across that chain
// that marks the failure handled wins; later handlers for that failure
// are never invoked. If nothing recovers, every matching action runs
// (for observation only) and the original error is returned unchanged.
//
// # Notifications
//
// Publish delivers a notification to zero or more handlers using the
// Mediator's configured Publisher (Sequential by default, or Parallel).
// Notifications do not participate in the pipeline: no pre-processors,
// middleware, post-processors, or exception handling apply to them.
//
// # Locator
//
// mediator never stores handler or middleware instances itself; it asks
// a Locator to resolve all instances of a service type on every
// dispatch. Registry is a ready-to-use in-memory Locator; production
// code may plug in a DI container instead by implementing the one-method
// Locator interface.
package mediator
