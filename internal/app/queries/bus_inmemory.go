package queries

import (
	"context"
	"fmt"
)

type rawHandler func(ctx context.Context, q Query) (any, error)

// InMemoryBus is a map of query keys to handlers, filled once during wiring
// and read-only afterwards.
type InMemoryBus struct {
	routes map[string]rawHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: make(map[string]rawHandler)}
}

func (b *InMemoryBus) Ask(ctx context.Context, query Query) (any, error) {
	h, ok := b.routes[query.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnroutable, query.Key())
	}
	return h(ctx, query)
}

// RegisterHandler binds a typed handler to a query key; duplicate and empty
// keys panic at startup.
func RegisterHandler[Q Query, R any](bus *InMemoryBus, key string, handler Handler[Q, R]) {
	if key == "" {
		panic("queries: registering empty key")
	}
	if _, dup := bus.routes[key]; dup {
		panic("queries: duplicate registration for " + key)
	}
	bus.routes[key] = func(ctx context.Context, raw Query) (any, error) {
		q, ok := any(raw).(Q)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrWrongType, key)
		}
		return handler.Handle(ctx, q)
	}
}
