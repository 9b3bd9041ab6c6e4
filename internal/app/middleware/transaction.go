package middleware

import (
	"context"

	"campsite/internal/app/commands"
	"campsite/internal/app/uow"
)

// TxOptionsProvider lets the wiring choose transaction options per command,
// e.g. read-only for commands that only inspect state.
type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// sessionInjector is implemented by units whose backend needs its session in
// the context (the Mongo unit of work does).
type sessionInjector interface {
	InjectContext(context.Context) context.Context
}

// Transaction opens one unit of work per dispatched command and makes it the
// ambient unit via the context, so every repository touch inside the handler
// lands in the same transaction. Commit happens only when the handler returns
// cleanly; any error rolls the whole command back.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			var opts uow.TxOptions
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			if inj, ok := unit.(sessionInjector); ok {
				ctx = inj.InjectContext(ctx)
			}
			ctx = uow.ContextWithUnitOfWork(ctx, unit)

			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(ctx)
				}
			}()

			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(ctx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
