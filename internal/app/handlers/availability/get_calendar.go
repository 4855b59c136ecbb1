package availability

import (
	"context"
	"time"

	"petlodge/internal/app/dto"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainsuites "petlodge/internal/domain/suites"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	SuiteID string
	From    time.Time
	To      time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Calendar{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Calendar{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	calendar, err := unit.Availability().Calendar(ctx, domainsuites.SuiteID(q.SuiteID))
	if err != nil {
		return dto.Calendar{}, err
	}

	return dto.MapCalendar(calendar), nil
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
