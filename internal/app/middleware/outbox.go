package middleware

import (
	"context"

	"campsite/internal/app/commands"
	"campsite/internal/app/outbox"
)

// OutboxFlush pushes recorded domain events to the outbox store after the
// command succeeds. Runs inside the transaction wrapper so the flush commits
// or rolls back together with the state change.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
