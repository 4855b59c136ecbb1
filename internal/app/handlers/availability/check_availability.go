package availability

import (
	"context"
	"errors"
	"time"

	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

const checkAvailabilityKey = "availability.check"

// CheckAvailabilityQuery answers "which of these suites are free for the
// dates". The answer is advisory: the reservation path re-checks inside its
// own transaction before committing.
type CheckAvailabilityQuery struct {
	SuiteIDs []string
	CheckIn  time.Time
	CheckOut time.Time
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.AvailabilityReport, error) {
	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.AvailabilityReport{}, err
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.AvailabilityReport{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	report := dto.AvailabilityReport{
		CheckIn:  dr.CheckIn,
		CheckOut: dr.CheckOut,
		Suites:   make([]dto.SuiteAvailability, 0, len(q.SuiteIDs)),
	}
	for _, raw := range q.SuiteIDs {
		suiteID := domainsuites.SuiteID(raw)
		cal, err := unit.Availability().Calendar(execCtx, suiteID)
		if err != nil {
			if errors.Is(err, domainavailability.ErrCalendarNotFound) {
				// No calendar yet means nothing is booked.
				report.Suites = append(report.Suites, dto.SuiteAvailability{SuiteID: raw, Available: true})
				continue
			}
			return dto.AvailabilityReport{}, err
		}
		report.Suites = append(report.Suites, dto.SuiteAvailability{
			SuiteID:   raw,
			Available: domainavailability.IsAvailable(dr, cal.Bookings()),
		})
	}
	return report, nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.AvailabilityReport] = (*CheckAvailabilityHandler)(nil)
