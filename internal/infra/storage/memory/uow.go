package memory

import (
	"context"
	"errors"

	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainpricing "petlodge/internal/domain/pricing"
	domainreviews "petlodge/internal/domain/reviews"
	domainsuites "petlodge/internal/domain/suites"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	SuitesRepo       domainsuites.SuiteRepository
	AvailabilityRepo domainavailability.Repository
	BookingRepo      domainbooking.Repository
	PetsRepo         domainpets.Repository
	PricingSvc       domainpricing.Calculator
	ReviewsRepo      domainreviews.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.SuitesRepo == nil || f.AvailabilityRepo == nil || f.BookingRepo == nil || f.PetsRepo == nil || f.ReviewsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		suites:       f.SuitesRepo,
		availability: f.AvailabilityRepo,
		booking:      f.BookingRepo,
		pets:         f.PetsRepo,
		pricing:      f.PricingSvc,
		reviews:      f.ReviewsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	suites       domainsuites.SuiteRepository
	availability domainavailability.Repository
	booking      domainbooking.Repository
	pets         domainpets.Repository
	pricing      domainpricing.Calculator
	reviews      domainreviews.Repository
}

func (u *Unit) Suites() domainsuites.SuiteRepository {
	return u.suites
}

func (u *Unit) Availability() domainavailability.Repository {
	return u.availability
}

func (u *Unit) Booking() domainbooking.Repository {
	return u.booking
}

func (u *Unit) Pets() domainpets.Repository {
	return u.pets
}

func (u *Unit) Pricing() domainpricing.Calculator {
	return u.pricing
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
