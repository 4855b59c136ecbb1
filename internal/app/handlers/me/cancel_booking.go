package me

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/outbox"
	"petlodge/internal/app/policies"
	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
)

const cancelBookingKey = "me.bookings.cancel"

var ErrBookingNotOwnedByCustomer = errors.New("me: booking belongs to another customer")

type CancelBookingCommand struct {
	CustomerID string
	BookingID  string
	Reason     string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.BookingID) == "" {
		return errors.New("me: booking id is required")
	}
	if strings.TrimSpace(c.CustomerID) == "" {
		return errors.New("me: customer id is required")
	}
	return nil
}

type CancelBookingResult struct {
	BookingID    string `json:"booking_id"`
	Status       string `json:"status"`
	RefundCents  int64  `json:"refund_cents"`
	PenaltyCents int64  `json:"penalty_cents"`
}

// CancelBookingHandler applies the policy snapshot taken at request time and
// frees the suite calendars.
type CancelBookingHandler struct {
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Payments policies.PaymentsPort
	Logger   *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	customerID := strings.TrimSpace(cmd.CustomerID)
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	bk, err := unit.Booking().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return nil, err
	}
	if bk.CustomerID != customerID {
		return nil, ErrBookingNotOwnedByCustomer
	}

	now := time.Now().UTC()
	refund, penalty, err := bk.Cancel(strings.TrimSpace(cmd.Reason), now)
	if err != nil {
		return nil, err
	}

	for _, suiteID := range bk.SuiteIDs() {
		cal, err := unit.Availability().Calendar(ctx, suiteID)
		if err != nil {
			if errors.Is(err, domainavailability.ErrCalendarNotFound) {
				continue
			}
			return nil, err
		}
		if err := cal.Release(string(bk.ID), now); err != nil {
			if errors.Is(err, domainavailability.ErrRangeNotFound) {
				continue
			}
			return nil, err
		}
		if err := unit.Availability().Save(ctx, cal); err != nil {
			return nil, err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, cal.PendingEvents()); err != nil {
			return nil, err
		}
		cal.ClearEvents()
	}

	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}
	evs := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, evs); err != nil {
		return nil, err
	}

	if h.Payments != nil && refund.Amount > 0 {
		if err := h.Payments.Refund(ctx, string(bk.ID), refund); err != nil {
			return nil, err
		}
	}

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", bk.ID, "customer_id", customerID, "refund_cents", refund.Amount, "penalty_cents", penalty.Amount)
	}

	return &CancelBookingResult{
		BookingID:    string(bk.ID),
		Status:       string(bk.State),
		RefundCents:  refund.Amount,
		PenaltyCents: penalty.Amount,
	}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
