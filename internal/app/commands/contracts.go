package commands

import (
	"context"
	"errors"
	"fmt"
)

// Command is a write intent. Key names the handler it routes to.
type Command interface {
	Key() string
}

// Handler executes one command type.
type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Bus routes commands to registered handlers. Everything dispatches through
// the middleware-wrapped bus built in main, never the bare registry.
type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

var (
	ErrUnroutable  = errors.New("commands: no handler registered for key")
	ErrWrongType   = errors.New("commands: command type does not match handler")
	ErrResultShape = errors.New("commands: handler result has unexpected type")
)

// Dispatch sends cmd through the bus and asserts the result back to R. A nil
// untyped result maps to R's zero value so handlers may return nothing.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var zero R
	raw, err := bus.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	typed, ok := raw.(R)
	if !ok {
		return zero, fmt.Errorf("%w: got %T", ErrResultShape, raw)
	}
	return typed, nil
}
