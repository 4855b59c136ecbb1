package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "petlodge/internal/domain/booking"
	domainpricing "petlodge/internal/domain/pricing"
	domainreviews "petlodge/internal/domain/reviews"
	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
	domainsuites "petlodge/internal/domain/suites"
	"petlodge/internal/infra/storage/memory"
)

var reviewClock = time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC)

type reviewFixture struct {
	handler  *SubmitReviewHandler
	suites   *memory.SuiteRepository
	bookings *memory.BookingRepository
	reviews  *memory.ReviewsRepository
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	fx := &reviewFixture{
		suites:   memory.NewSuiteRepository(),
		bookings: memory.NewBookingRepository(),
		reviews:  memory.NewReviewsRepository(),
	}
	fx.handler = &SubmitReviewHandler{
		UoWFactory: memory.Factory{
			SuitesRepo:       fx.suites,
			AvailabilityRepo: memory.NewCalendarRepository(),
			BookingRepo:      fx.bookings,
			PetsRepo:         memory.NewPetRepository(),
			PricingSvc:       domainpricing.NewCalculator(),
			ReviewsRepo:      fx.reviews,
		},
	}

	suite, err := domainsuites.NewSuite(domainsuites.CreateSuiteParams{
		ID:               "s-1",
		Facility:         "facility-downtown",
		Name:             "Suite s-1",
		Type:             domainsuites.TypeKennel,
		Capacity:         2,
		LocationCode:     "A-1",
		NightlyRateCents: 4500,
		Now:              reviewClock,
	})
	require.NoError(t, err)
	require.NoError(t, fx.suites.Save(context.Background(), suite))
	return fx
}

func (fx *reviewFixture) seedBooking(t *testing.T, id, customer string, checkOut time.Time) {
	t.Helper()
	dr, err := daterange.New(checkOut.AddDate(0, 0, -3), checkOut)
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(id),
		FacilityID:  "facility-downtown",
		CustomerID:  customer,
		PetIDs:      []string{"pet-1"},
		Assignments: map[domainsuites.SuiteID][]string{"s-1": {"pet-1"}},
		Range:       dr,
		Price:       domainpricing.Breakdown{Total: money.Must(13500, money.DefaultCurrency)},
		CreatedAt:   dr.CheckIn.AddDate(0, 0, -7),
	})
	require.NoError(t, err)
	require.NoError(t, fx.bookings.Save(context.Background(), b))
}

func TestSubmitReviewUpdatesSuiteRating(t *testing.T) {
	fx := newReviewFixture(t)
	fx.seedBooking(t, "bk-1", "cust-1", reviewClock.AddDate(0, 0, -1))

	review, err := fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "bk-1",
		AuthorID:  "cust-1",
		Rating:    4,
		Text:      "Clean suite, happy dog.",
		Now:       reviewClock,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "s-1", review.SuiteID)

	suite, err := fx.suites.ByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, suite.Rating, 0.001)
}

func TestSubmitReviewRejectsForeignBooking(t *testing.T) {
	fx := newReviewFixture(t)
	fx.seedBooking(t, "bk-1", "someone-else", reviewClock.AddDate(0, 0, -1))

	_, err := fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "bk-1", AuthorID: "cust-1", Rating: 4, Now: reviewClock,
	})
	assert.ErrorIs(t, err, ErrBookingOwnership)
}

func TestSubmitReviewRejectsUnfinishedStay(t *testing.T) {
	fx := newReviewFixture(t)
	fx.seedBooking(t, "bk-1", "cust-1", reviewClock.AddDate(0, 0, 2))

	_, err := fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "bk-1", AuthorID: "cust-1", Rating: 4, Now: reviewClock,
	})
	assert.ErrorIs(t, err, ErrStayNotFinished)
}

func TestSubmitReviewRejectsDuplicate(t *testing.T) {
	fx := newReviewFixture(t)
	fx.seedBooking(t, "bk-1", "cust-1", reviewClock.AddDate(0, 0, -1))

	cmd := SubmitReviewCommand{BookingID: "bk-1", AuthorID: "cust-1", Rating: 5, Now: reviewClock}
	_, err := fx.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = fx.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestSubmitReviewRejectsInvalidRating(t *testing.T) {
	fx := newReviewFixture(t)
	fx.seedBooking(t, "bk-1", "cust-1", reviewClock.AddDate(0, 0, -1))

	_, err := fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "bk-1", AuthorID: "cust-1", Rating: 6, Now: reviewClock,
	})
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)
}

func TestSubmitReviewUnknownBooking(t *testing.T) {
	fx := newReviewFixture(t)
	_, err := fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "missing", AuthorID: "cust-1", Rating: 4, Now: reviewClock,
	})
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
}

func TestRatingAveragesAcrossReviews(t *testing.T) {
	fx := newReviewFixture(t)
	fx.seedBooking(t, "bk-1", "cust-1", reviewClock.AddDate(0, 0, -1))
	fx.seedBooking(t, "bk-2", "cust-2", reviewClock.AddDate(0, 0, -1))

	_, err := fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "bk-1", AuthorID: "cust-1", Rating: 5, Now: reviewClock,
	})
	require.NoError(t, err)
	_, err = fx.handler.Handle(context.Background(), SubmitReviewCommand{
		BookingID: "bk-2", AuthorID: "cust-2", Rating: 2, Now: reviewClock,
	})
	require.NoError(t, err)

	suite, err := fx.suites.ByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, suite.Rating, 0.001)
}
