package uow

import "context"

// Scope wraps a unit of work with ownership bookkeeping. Units injected by the
// transaction middleware belong to the middleware and are committed there;
// units a handler had to start itself are committed or rolled back through the
// scope.
type Scope struct {
	UnitOfWork
	owned     bool
	committed bool
}

// BeginScope reuses the ambient unit of work or starts an owned one.
func BeginScope(ctx context.Context, factory UoWFactory, opts TxOptions) (*Scope, context.Context, error) {
	if unit, ok := FromContext(ctx); ok {
		return &Scope{UnitOfWork: unit}, ctx, nil
	}
	if factory == nil {
		return nil, nil, ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return &Scope{UnitOfWork: unit, owned: true}, ContextWithUnitOfWork(ctx, unit), nil
}

// Close rolls back an owned, uncommitted scope. Safe to defer unconditionally.
func (s *Scope) Close(ctx context.Context) {
	if s.owned && !s.committed {
		_ = s.UnitOfWork.Rollback(ctx)
	}
}

// Complete commits an owned scope; ambient units are left to their owner.
func (s *Scope) Complete(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	if err := s.UnitOfWork.Commit(ctx); err != nil {
		return err
	}
	s.committed = true
	return nil
}
