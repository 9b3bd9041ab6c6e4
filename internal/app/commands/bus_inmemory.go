package commands

import (
	"context"
	"fmt"
)

type rawHandler func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus is a map of command keys to handlers. Registration happens once
// during wiring; after that the map is read-only, so no lock is needed.
type InMemoryBus struct {
	routes map[string]rawHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: make(map[string]rawHandler)}
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	h, ok := b.routes[cmd.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnroutable, cmd.Key())
	}
	return h(ctx, cmd)
}

// RegisterHandler binds a typed handler to a command key. A duplicate or empty
// key is a wiring bug, caught loudly at startup.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, handler Handler[C, R]) {
	if key == "" {
		panic("commands: registering empty key")
	}
	if _, dup := bus.routes[key]; dup {
		panic("commands: duplicate registration for " + key)
	}
	bus.routes[key] = func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := any(raw).(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrWrongType, key)
		}
		return handler.Handle(ctx, cmd)
	}
}
