package middleware

import (
	"context"

	"campsite/internal/app/commands"
)

// SelfValidating commands carry their own shape checks (date formats, occupant
// counts) and are rejected before any handler or transaction runs.
type SelfValidating interface {
	Validate() error
}

func Validation() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if v, ok := cmd.(SelfValidating); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}
