package middleware

import (
	"context"

	"campsite/internal/app/commands"
	"campsite/internal/app/queries"
)

// CommandMiddleware decorates a command bus. The chain in main runs
// idempotency first, then validation, then the transaction wrapper, then the
// outbox flush closest to the handler.
type CommandMiddleware func(next commands.Bus) commands.Bus

// QueryMiddleware decorates a query bus.
type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands wraps base with mws, first middleware outermost.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	bus := base
	for i := len(mws) - 1; i >= 0; i-- {
		bus = mws[i](bus)
	}
	return bus
}

// ChainQueries wraps base with mws, first middleware outermost.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	bus := base
	for i := len(mws) - 1; i >= 0; i-- {
		bus = mws[i](bus)
	}
	return bus
}

// commandFunc and queryFunc let middleware return closures instead of
// one-off structs.
type commandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f commandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type queryFunc func(ctx context.Context, query queries.Query) (any, error)

func (f queryFunc) Ask(ctx context.Context, query queries.Query) (any, error) {
	return f(ctx, query)
}
