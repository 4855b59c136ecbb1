package uow

import (
	"context"
	"errors"
)

var ErrUnitOfWorkMissing = errors.New("uow: no unit of work in context")

type ctxKey struct{}

// ContextWithUnitOfWork hangs the unit on the context. The transaction
// middleware does this so a booking handler and the repositories it touches
// share one transaction without threading the unit through every signature.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext recovers the ambient unit. Handlers fall back to opening
// their own when none is present (direct calls in tests, the sweeper).
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	val := ctx.Value(ctxKey{})
	if val == nil {
		return nil, false
	}
	unit, ok := val.(UnitOfWork)
	return unit, ok
}
