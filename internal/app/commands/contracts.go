// Package commands carries the write side of the booking desk: requesting
// and cancelling stays, managing suites and pets, attaching media. Every
// mutation enters through the bus so the middleware chain (validation,
// idempotency, transaction, outbox flush) sees it.
package commands

import (
	"context"
	"errors"
)

// Command is a write intent. Key identifies the handler, and doubles as the
// idempotency namespace for retried requests.
type Command interface {
	Key() string
}

// Handler executes one command kind.
type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Bus routes a command to its handler, running whatever middleware the
// deployment chained in front.
type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

var (
	ErrHandlerNotFound = errors.New("commands: no handler registered")
	ErrInvalidCommand  = errors.New("commands: command does not match handler")
	ErrResultType      = errors.New("commands: unexpected result type")
	ErrNilBus          = errors.New("commands: nil bus")
)

// Dispatch sends cmd through the bus and narrows the result back to R, so
// HTTP handlers get typed DTOs instead of any.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var zero R
	if bus == nil {
		return zero, ErrNilBus
	}
	res, err := bus.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	value, ok := res.(R)
	if !ok {
		return zero, ErrResultType
	}
	return value, nil
}
