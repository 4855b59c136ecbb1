package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainpricing "petlodge/internal/domain/pricing"
	domainsuites "petlodge/internal/domain/suites"
	"petlodge/internal/infra/storage/memory"
)

var testClock = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

const testFacility = "facility-downtown"

type bookingFixture struct {
	handler   *RequestBookingHandler
	suites    *memory.SuiteRepository
	calendars *memory.CalendarRepository
	bookings  *memory.BookingRepository
	pets      *memory.PetRepository
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	fx := &bookingFixture{
		suites:    memory.NewSuiteRepository(),
		calendars: memory.NewCalendarRepository(),
		bookings:  memory.NewBookingRepository(),
		pets:      memory.NewPetRepository(),
	}
	factory := memory.Factory{
		SuitesRepo:       fx.suites,
		AvailabilityRepo: fx.calendars,
		BookingRepo:      fx.bookings,
		PetsRepo:         fx.pets,
		PricingSvc:       domainpricing.NewCalculator(),
		ReviewsRepo:      memory.NewReviewsRepository(),
	}
	fx.handler = &RequestBookingHandler{
		UoWFactory:         factory,
		Outbox:             memory.NewOutbox(),
		SanitationGapHours: 2,
		Now:                func() time.Time { return testClock },
	}
	return fx
}

func (fx *bookingFixture) addSuite(t *testing.T, id string, capacity int, rateCents int64, minNights int) {
	t.Helper()
	suite, err := domainsuites.NewSuite(domainsuites.CreateSuiteParams{
		ID:               domainsuites.SuiteID(id),
		Facility:         testFacility,
		Name:             "Suite " + id,
		Type:             domainsuites.TypeKennel,
		Capacity:         capacity,
		LocationCode:     "A-" + id,
		MinNights:        minNights,
		NightlyRateCents: rateCents,
		Now:              testClock,
	})
	require.NoError(t, err)
	require.NoError(t, suite.Activate(testClock))
	require.NoError(t, fx.suites.Save(context.Background(), suite))
}

func (fx *bookingFixture) addPet(t *testing.T, id, owner string, vaccinatedUntil time.Time) {
	t.Helper()
	pet, err := domainpets.NewPet(domainpets.CreateParams{
		ID:        domainpets.PetID(id),
		OwnerID:   owner,
		Name:      "Pet " + id,
		Species:   domainpets.SpeciesDog,
		WeightKg:  12,
		CreatedAt: testClock,
	})
	require.NoError(t, err)
	if !vaccinatedUntil.IsZero() {
		pet.AttachVaccination(domainpets.VaccinationRecord{
			Kind:      "rabies",
			ExpiresAt: vaccinatedUntil,
		}, testClock)
	}
	require.NoError(t, fx.pets.Save(context.Background(), pet))
}

func stayCommand(id string) RequestBookingCommand {
	return RequestBookingCommand{
		CommandID:  id,
		FacilityID: testFacility,
		CustomerID: "cust-1",
		PetIDs:     []string{"pet-1"},
		CheckIn:    time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC),
	}
}

func TestRequestBookingHappyPath(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

	res, err := fx.handler.Handle(context.Background(), stayCommand("bk-1"))
	require.NoError(t, err)
	assert.Equal(t, "bk-1", res.BookingID)
	assert.Equal(t, map[string][]string{"s-1": {"pet-1"}}, res.Assignments)
	assert.Equal(t, int64(13500), res.TotalCents)

	stored, err := fx.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatePending, stored.State)

	cal, err := fx.calendars.Calendar(context.Background(), "s-1")
	require.NoError(t, err)
	// Booking block plus the sanitation buffer behind it.
	require.Len(t, cal.Blocks, 2)
	assert.Equal(t, "bk-1", cal.Blocks[0].Reference)
	assert.Equal(t, "bk-1-sanitation", cal.Blocks[1].Reference)
}

func TestRequestBookingRejectsPastCheckIn(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})

	cmd := stayCommand("bk-1")
	cmd.CheckIn = testClock.AddDate(0, 0, -3)
	cmd.CheckOut = testClock.AddDate(0, 0, 2)

	_, err := fx.handler.Handle(context.Background(), cmd)
	var rejected domainbooking.StayRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, domainbooking.ReasonCheckInInPast, rejected.Result.Reason)
}

func TestRequestBookingRejectsForeignPet(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addPet(t, "pet-1", "someone-else", time.Time{})

	_, err := fx.handler.Handle(context.Background(), stayCommand("bk-1"))
	assert.ErrorIs(t, err, domainpets.ErrNotOwner)
}

func TestRequestBookingRejectsExpiredVaccination(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	// Expires mid-stay, before the check-out.
	fx.addPet(t, "pet-1", "cust-1", time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC))

	_, err := fx.handler.Handle(context.Background(), stayCommand("bk-1"))
	assert.ErrorIs(t, err, domainpets.ErrVaccinationsDue)
}

func TestRequestBookingNoSuitesForTakenDates(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})

	_, err := fx.handler.Handle(context.Background(), stayCommand("bk-1"))
	require.NoError(t, err)

	_, err = fx.handler.Handle(context.Background(), stayCommand("bk-2"))
	assert.ErrorIs(t, err, ErrNoSuitesAvailable)
}

func TestRequestBookingOverflowsToSecondSuite(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addSuite(t, "s-2", 1, 6000, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})

	first, err := fx.handler.Handle(context.Background(), stayCommand("bk-1"))
	require.NoError(t, err)
	assert.Contains(t, first.Assignments, "s-1")

	second, err := fx.handler.Handle(context.Background(), stayCommand("bk-2"))
	require.NoError(t, err)
	assert.Contains(t, second.Assignments, "s-2")
	assert.Equal(t, int64(18000), second.TotalCents)
}

func TestRequestBookingMultiPetPricedAtHighestRate(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addSuite(t, "s-2", 1, 6000, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})
	fx.addPet(t, "pet-2", "cust-1", time.Time{})

	cmd := stayCommand("bk-1")
	cmd.PetIDs = []string{"pet-1", "pet-2"}

	res, err := fx.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)
	// 3 nights at the top rate, second pet at 80%: 18000 + 14400.
	assert.Equal(t, int64(32400), res.TotalCents)
}

func TestRequestBookingInsufficientCapacity(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 4500, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})
	fx.addPet(t, "pet-2", "cust-1", time.Time{})

	cmd := stayCommand("bk-1")
	cmd.PetIDs = []string{"pet-1", "pet-2"}

	_, err := fx.handler.Handle(context.Background(), cmd)
	assert.Error(t, err)
}

func TestRequestBookingDaycareIgnoresMinimumNights(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-1", 1, 800, 3)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})

	cmd := stayCommand("bk-1")
	cmd.Daycare = true
	cmd.CheckIn = time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	cmd.CheckOut = time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)

	res, err := fx.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	// Same-day visit bills the one-night minimum at the suite's nightly rate.
	assert.Equal(t, int64(800), res.TotalCents)

	// The same stay as boarding trips the 3-night minimum.
	cmd.Daycare = false
	cmd.CommandID = "bk-2"
	_, err = fx.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrNoSuitesAvailable)
}

func TestRequestBookingPrefersSameSuite(t *testing.T) {
	fx := newBookingFixture(t)
	fx.addSuite(t, "s-big", 4, 9000, 1)
	fx.addSuite(t, "s-small", 1, 4500, 1)
	fx.addPet(t, "pet-1", "cust-1", time.Time{})
	fx.addPet(t, "pet-2", "cust-1", time.Time{})

	cmd := stayCommand("bk-1")
	cmd.PetIDs = []string{"pet-1", "pet-2"}
	cmd.PreferSameSuite = true

	res, err := fx.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"s-big": {"pet-1", "pet-2"}}, res.Assignments)
}
