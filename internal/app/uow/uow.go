package uow

import (
	"context"

	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainpricing "petlodge/internal/domain/pricing"
	domainreviews "petlodge/internal/domain/reviews"
	domainsuites "petlodge/internal/domain/suites"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Suites() domainsuites.SuiteRepository
	Availability() domainavailability.Repository
	Booking() domainbooking.Repository
	Pets() domainpets.Repository
	Pricing() domainpricing.Calculator
	Reviews() domainreviews.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
