package queries

import (
	"context"
	"errors"
	"fmt"
)

// Query is a read request. Key names the handler it routes to.
type Query interface {
	Key() string
}

// Handler answers one query type.
type Handler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Bus routes queries to registered handlers.
type Bus interface {
	Ask(ctx context.Context, query Query) (any, error)
}

var (
	ErrUnroutable  = errors.New("queries: no handler registered for key")
	ErrWrongType   = errors.New("queries: query type does not match handler")
	ErrResultShape = errors.New("queries: handler result has unexpected type")
)

// Ask runs the query through the bus and asserts the result back to R.
func Ask[Q Query, R any](ctx context.Context, bus Bus, query Q) (R, error) {
	var zero R
	raw, err := bus.Ask(ctx, query)
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
