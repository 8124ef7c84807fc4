package mediator

// Request is a marker that associates a request type with its response
// type. Embed RequestBase[TRes] into a request struct to implement it;
// the embedding carries no runtime state, only the type parameter.
//
//	type Lookup struct {
//	    mediator.RequestBase[User]
//	    ID string
//	}
type Request[TRes any] interface {
	isRequest(*TRes)
}

// RequestBase implements Request[TRes] for an embedding struct.
type RequestBase[TRes any] struct{}

func (RequestBase[TRes]) isRequest(*TRes) {}

// VoidRequest is a request with no response payload. It is modeled as
// Request[Unit] so it shares pipeline and executor code with
// response-bearing requests; SendVoid discards the Unit result.
type VoidRequest = Request[Unit]
