// Package cqrs – Dispatcher
//
// The Dispatcher is a startup-wired registry from request type to handler
// function. Exactly one handler may be registered per request type; duplicate
// or missing registrations are wiring mistakes and surface as errors (or a
// panic via MustRegister) rather than silent fallbacks at call time.
//
// Handlers receive the caller's context for cancellation and return their
// result or failure unchanged; the dispatcher adds nothing on either path.
package cqrs

import (
	"context"
	"fmt"
	"reflect"
)

// HandlerFunc is the uniform shape stored in the registry. The concrete
// request/response types are recovered by the typed helpers below.
type HandlerFunc func(ctx context.Context, req any) (any, error)

// Dispatcher routes a typed request value to its single registered handler.
// Registration happens once during wiring; Send is safe for concurrent use
// afterwards.
type Dispatcher struct {
	handlers map[reflect.Type]HandlerFunc
}

// NewDispatcher returns an empty dispatcher ready for registration.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[reflect.Type]HandlerFunc)}
}

// register binds fn to the request type rt. A second registration for the
// same type is an error: the exactly-one-handler guarantee is enforced at
// wiring time, not at call time.
func (d *Dispatcher) register(rt reflect.Type, fn HandlerFunc) error {
	if rt == nil {
		return fmt.Errorf("cqrs: cannot register handler for nil request type")
	}
	if fn == nil {
		return fmt.Errorf("cqrs: nil handler for request type %v", rt)
	}
	if _, dup := d.handlers[rt]; dup {
		return fmt.Errorf("cqrs: handler already registered for request type %v", rt)
	}
	d.handlers[rt] = fn
	return nil
}

// Send resolves the handler for req's dynamic type and invokes it. The
// handler's result or failure is returned unchanged. A request type with no
// registered handler is a wiring error.
func (d *Dispatcher) Send(ctx context.Context, req any) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("cqrs: cannot dispatch nil request")
	}
	rt := reflect.TypeOf(req)
	fn, ok := d.handlers[rt]
	if !ok {
		return nil, fmt.Errorf("cqrs: no handler registered for request type %v", rt)
	}
	return fn(ctx, req)
}

// Register binds a typed handler function to the request type Q. It is the
// preferred registration form: the stored closure re-asserts the request type
// so handlers keep their natural signatures.
func Register[Q any, R any](d *Dispatcher, fn func(ctx context.Context, req Q) (R, error)) error {
	var zero Q
	rt := reflect.TypeOf(zero)
	return d.register(rt, func(ctx context.Context, req any) (any, error) {
		q, ok := req.(Q)
		if !ok {
			return nil, fmt.Errorf("cqrs: request type mismatch: got %T", req)
		}
		return fn(ctx, q)
	})
}

// MustRegister is Register but panics on error. Use during startup wiring
// where a duplicate registration should abort the process.
func MustRegister[Q any, R any](d *Dispatcher, fn func(ctx context.Context, req Q) (R, error)) {
	if err := Register(d, fn); err != nil {
		panic(err)
	}
}

// Sender is the dispatch surface consumers depend on. *Dispatcher implements
// it; fakes in tests implement it too.
type Sender interface {
	Send(ctx context.Context, req any) (any, error)
}

// Send is the type-safe wrapper around Sender.Send for callers that know
// the response type R of their request.
func Send[R any](ctx context.Context, d Sender, req any) (R, error) {
	res, err := d.Send(ctx, req)
	if err != nil {
		var zero R
		return zero, err
	}
	out, ok := res.(R)
	if !ok {
		var zero R
		return zero, fmt.Errorf("cqrs: handler for %T returned %T", req, res)
	}
	return out, nil
}
