package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"petlodge/internal/domain/booking"
	"petlodge/internal/domain/shared/events"
	"petlodge/internal/domain/suites"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound      = errors.New("reviews: not found")
)

type ReviewID string

// Review is a customer's rating of a completed stay, attached to the suite
// their pets stayed in.
type Review struct {
	ID        ReviewID
	BookingID booking.BookingID
	AuthorID  string
	SuiteID   suites.SuiteID
	Rating    int
	Text      string
	CreatedAt time.Time
	Submitted bool
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID, authorID string) (*Review, error)
	ListBySuite(ctx context.Context, suiteID suites.SuiteID, limit, offset int) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	BookingID booking.BookingID
	AuthorID  string
	SuiteID   suites.SuiteID
	Rating    int
	Text      string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	review := &Review{
		ID:        params.ID,
		BookingID: params.BookingID,
		AuthorID:  params.AuthorID,
		SuiteID:   params.SuiteID,
		Rating:    params.Rating,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: params.CreatedAt.UTC(),
		Submitted: true,
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, BookingID: review.BookingID, SuiteID: review.SuiteID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

func (r *Review) Update(rating int, text string, now time.Time) error {
	if !r.Submitted {
		return errors.New("reviews: cannot update draft state")
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	r.Rating = rating
	r.Text = strings.TrimSpace(text)
	r.Record(ReviewUpdated{ReviewID: r.ID, At: now.UTC()})
	return nil
}
