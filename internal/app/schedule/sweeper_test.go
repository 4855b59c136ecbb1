package schedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpricing "petlodge/internal/domain/pricing"
	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
	domainsuites "petlodge/internal/domain/suites"
	"petlodge/internal/infra/storage/memory"
)

var sweepClock = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type sweeperFixture struct {
	sweeper   *ExpirySweeper
	bookings  *memory.BookingRepository
	calendars *memory.CalendarRepository
}

func newSweeperFixture(t *testing.T) *sweeperFixture {
	t.Helper()
	fx := &sweeperFixture{
		bookings:  memory.NewBookingRepository(),
		calendars: memory.NewCalendarRepository(),
	}
	fx.sweeper = &ExpirySweeper{
		Factory: memory.Factory{
			SuitesRepo:       memory.NewSuiteRepository(),
			AvailabilityRepo: fx.calendars,
			BookingRepo:      fx.bookings,
			PetsRepo:         memory.NewPetRepository(),
			PricingSvc:       domainpricing.NewCalculator(),
			ReviewsRepo:      memory.NewReviewsRepository(),
		},
		Outbox:   memory.NewOutbox(),
		TTL:      time.Hour,
		Interval: time.Minute,
		Logger:   slog.New(slog.DiscardHandler),
		Now:      func() time.Time { return sweepClock },
	}
	return fx
}

func (fx *sweeperFixture) seedBooking(t *testing.T, id string, createdAt time.Time) *domainbooking.Booking {
	t.Helper()
	ctx := context.Background()
	dr, err := daterange.New(sweepClock.AddDate(0, 0, 2), sweepClock.AddDate(0, 0, 5))
	require.NoError(t, err)

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(id),
		FacilityID:  "facility-downtown",
		CustomerID:  "cust-1",
		PetIDs:      []string{"pet-1"},
		Assignments: map[domainsuites.SuiteID][]string{"s-1": {"pet-1"}},
		Range:       dr,
		Price:       domainpricing.Breakdown{Total: money.Must(10000, money.DefaultCurrency)},
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	b.ClearEvents()
	require.NoError(t, fx.bookings.Save(ctx, b))

	cal, err := fx.calendars.Calendar(ctx, "s-1")
	if err != nil {
		cal = domainavailability.NewCalendar("s-1", 0)
	}
	require.NoError(t, cal.Reserve(dr, id, createdAt))
	cal.ClearEvents()
	require.NoError(t, fx.calendars.Save(ctx, cal))
	return b
}

func TestSweepExpiresStalePendingBooking(t *testing.T) {
	fx := newSweeperFixture(t)
	fx.seedBooking(t, "bk-stale", sweepClock.Add(-2*time.Hour))

	require.NoError(t, fx.sweeper.sweep(context.Background()))

	stored, err := fx.bookings.ByID(context.Background(), "bk-stale")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StateExpired, stored.State)

	cal, err := fx.calendars.Calendar(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Empty(t, cal.Blocks)
}

func TestSweepLeavesFreshBookingsAlone(t *testing.T) {
	fx := newSweeperFixture(t)
	fx.seedBooking(t, "bk-fresh", sweepClock.Add(-10*time.Minute))

	require.NoError(t, fx.sweeper.sweep(context.Background()))

	stored, err := fx.bookings.ByID(context.Background(), "bk-fresh")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatePending, stored.State)

	cal, err := fx.calendars.Calendar(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Len(t, cal.Blocks, 1)
}

func TestSweepSkipsNonPendingStates(t *testing.T) {
	fx := newSweeperFixture(t)
	b := fx.seedBooking(t, "bk-confirmed", sweepClock.Add(-2*time.Hour))
	require.NoError(t, b.Confirm(sweepClock))
	require.NoError(t, fx.bookings.Save(context.Background(), b))

	require.NoError(t, fx.sweeper.sweep(context.Background()))

	stored, err := fx.bookings.ByID(context.Background(), "bk-confirmed")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StateConfirmed, stored.State)
}
