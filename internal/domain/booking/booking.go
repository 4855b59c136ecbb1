package booking

import (
	"context"
	"errors"
	"time"

	"petlodge/internal/domain/pricing"
	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/events"
	"petlodge/internal/domain/shared/money"
	"petlodge/internal/domain/suites"
)

var (
	ErrNoPets          = errors.New("booking: at least one pet is required")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrBookingNotFound = errors.New("booking: not found")
	ErrNoAssignments   = errors.New("booking: suite assignment is required")
)

type BookingID string

type BookingState string

const (
	StatePending    BookingState = "PENDING"
	StateConfirmed  BookingState = "CONFIRMED"
	StateDeclined   BookingState = "DECLINED"
	StateExpired    BookingState = "EXPIRED"
	StateCancelled  BookingState = "CANCELLED"
	StateCheckedIn  BookingState = "CHECKED_IN"
	StateCheckedOut BookingState = "CHECKED_OUT"
	StateNoShow     BookingState = "NO_SHOW"
)

// Booking is a stay request for one or more pets. Assignments maps each
// reserved suite to the pets housed in it; the price and cancellation policy
// are snapshotted at request time so later catalog edits never reprice a
// stay.
type Booking struct {
	ID          BookingID
	FacilityID  suites.FacilityID
	CustomerID  string
	PetIDs      []string
	Assignments map[suites.SuiteID][]string
	ServiceCode string
	Range       daterange.DateRange
	Daycare     bool
	Price       pricing.Breakdown
	State       BookingState
	Policy      CancellationPolicySnapshot
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	ListByFacility(ctx context.Context, facilityID suites.FacilityID) ([]*Booking, error)
	// ListPendingBefore feeds the expiry sweeper: pending bookings created
	// before the cutoff.
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID          BookingID
	FacilityID  suites.FacilityID
	CustomerID  string
	PetIDs      []string
	Assignments map[suites.SuiteID][]string
	ServiceCode string
	Range       daterange.DateRange
	Daycare     bool
	Price       pricing.Breakdown
	Policy      CancellationPolicySnapshot
	CreatedAt   time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if len(params.PetIDs) == 0 {
		return nil, ErrNoPets
	}
	if params.CustomerID == "" {
		return nil, errors.New("booking: customer id required")
	}
	if len(params.Assignments) == 0 {
		return nil, ErrNoAssignments
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:          params.ID,
		FacilityID:  params.FacilityID,
		CustomerID:  params.CustomerID,
		PetIDs:      append([]string(nil), params.PetIDs...),
		Assignments: copyAssignments(params.Assignments),
		ServiceCode: params.ServiceCode,
		Range:       params.Range,
		Daycare:     params.Daycare,
		Price:       params.Price,
		Policy:      params.Policy,
		State:       StatePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(BookingRequested{
		BookingID:  b.ID,
		FacilityID: b.FacilityID,
		CustomerID: b.CustomerID,
		PetCount:   len(b.PetIDs),
		Range:      b.Range,
		Total:      b.Price.Total,
		At:         now,
	})
	return b, nil
}

// PrimarySuiteID is the lowest assigned suite id, used where a single suite
// reference is needed (reviews, thumbnails).
func (b *Booking) PrimarySuiteID() suites.SuiteID {
	var primary suites.SuiteID
	for id := range b.Assignments {
		if primary == "" || id < primary {
			primary = id
		}
	}
	return primary
}

// SuiteIDs lists the reserved suites in no particular order.
func (b *Booking) SuiteIDs() []suites.SuiteID {
	ids := make([]suites.SuiteID, 0, len(b.Assignments))
	for id := range b.Assignments {
		ids = append(ids, id)
	}
	return ids
}

func (b *Booking) Confirm(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, FacilityID: b.FacilityID, Range: b.Range, Total: b.Price.Total, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Decline(reason string, now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateDeclined
	b.UpdatedAt = now.UTC()
	b.Record(BookingDeclined{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Expire is the sweeper's transition for pending requests the facility
// never answered. Releasing the calendar holds is the caller's job.
func (b *Booking) Expire(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateExpired
	b.UpdatedAt = now.UTC()
	b.Record(BookingExpired{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) (money.Money, money.Money, error) {
	switch b.State {
	case StatePending, StateConfirmed:
	default:
		return money.Money{}, money.Money{}, ErrInvalidState
	}
	refund, penalty, err := b.Policy.CalculateRefund(b.Price.Total, now, b.Range.CheckIn)
	if err != nil {
		return money.Money{}, money.Money{}, err
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, Refund: refund, Penalty: penalty, Reason: reason, At: b.UpdatedAt})
	return refund, penalty, nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	b.State = StateCheckedIn
	b.UpdatedAt = now.UTC()
	b.Record(CheckInCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.State != StateCheckedIn {
		return ErrInvalidState
	}
	b.State = StateCheckedOut
	b.UpdatedAt = now.UTC()
	b.Record(CheckOutCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) MarkNoShow(now time.Time) error {
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	b.State = StateNoShow
	b.UpdatedAt = now.UTC()
	b.Record(NoShowRecorded{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func copyAssignments(in map[suites.SuiteID][]string) map[suites.SuiteID][]string {
	out := make(map[suites.SuiteID][]string, len(in))
	for id, pets := range in {
		out[id] = append([]string(nil), pets...)
	}
	return out
}
