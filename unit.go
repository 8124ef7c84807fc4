package mediator

// Unit is the zero-information response used to unify void requests
// with response-bearing requests so the executor and pipeline stay
// generic in the response type. All Unit values compare equal.
type Unit struct{}
