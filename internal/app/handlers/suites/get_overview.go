package suites

import (
	"context"
	"errors"
	"time"

	"petlodge/internal/app/dto"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
	domainsuites "petlodge/internal/domain/suites"
)

const getOverviewKey = "suites.overview"

// GetOverviewQuery loads a suite with availability metadata.
type GetOverviewQuery struct {
	SuiteID string
	From    time.Time
	To      time.Time
}

func (q GetOverviewQuery) Key() string { return getOverviewKey }

// GetOverviewHandler resolves the overview DTO.
type GetOverviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetOverviewHandler) Handle(ctx context.Context, q GetOverviewQuery) (dto.SuiteOverview, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.SuiteOverview{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.SuiteOverview{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	suite, err := unit.Suites().ByID(ctx, domainsuites.SuiteID(q.SuiteID))
	if err != nil {
		return dto.SuiteOverview{}, err
	}

	calendar, err := unit.Availability().Calendar(ctx, suite.ID)
	if err != nil {
		if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
			return dto.SuiteOverview{}, err
		}
		calendar = domainavailability.NewCalendar(suite.ID, 0)
	}

	return dto.MapSuiteOverview(suite, calendar, q.From, q.To), nil
}

var _ queries.Handler[GetOverviewQuery, dto.SuiteOverview] = (*GetOverviewHandler)(nil)
