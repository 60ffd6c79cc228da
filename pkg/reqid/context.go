package reqid

import (
	"context"
	"errors"
)

// ctxKey is the unexported key used to store the ID in context.
type ctxKey struct{}

// ErrUnbound is the panic value of Current when no ID is bound.
var ErrUnbound = errors.New("reqid: no request id bound to context")

// Bind returns a copy of ctx carrying id. The binding lives exactly as long as
// the returned context is in use; the parent context is never modified.
func Bind(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Run runs fn with id bound to its context and returns fn's error. Anything
// fn starts with the context it received, including other goroutines,
// observes the same ID.
func Run(ctx context.Context, id ID, fn func(ctx context.Context) error) error {
	return fn(Bind(ctx, id))
}

// Lookup returns the innermost bound ID, if any.
func Lookup(ctx context.Context) (ID, bool) {
	if ctx == nil {
		return ID{}, false
	}
	id, ok := ctx.Value(ctxKey{}).(ID)
	return id, ok
}

// Current returns the innermost bound ID. Calling it outside a bound context
// is a programming error and panics with ErrUnbound.
func Current(ctx context.Context) ID {
	id, ok := Lookup(ctx)
	if !ok {
		panic(ErrUnbound)
	}
	return id
}
