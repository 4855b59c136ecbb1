package me

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainreviews "petlodge/internal/domain/reviews"
)

const listCustomerBookingsKey = "me.bookings.list"

type ListCustomerBookingsQuery struct {
	CustomerID string
}

func (q ListCustomerBookingsQuery) Key() string { return listCustomerBookingsKey }

type ListCustomerBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListCustomerBookingsHandler) Handle(ctx context.Context, q ListCustomerBookingsQuery) (dto.CustomerBookingCollection, error) {
	customerID := strings.TrimSpace(q.CustomerID)
	if customerID == "" {
		return dto.CustomerBookingCollection{}, errors.New("customer id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CustomerBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Booking().ListByCustomer(execCtx, customerID)
	if err != nil {
		return dto.CustomerBookingCollection{}, err
	}

	now := time.Now().UTC()
	items := make([]dto.CustomerBookingSummary, 0, len(bookings))
	for _, bk := range bookings {
		canReview := !bk.Range.CheckOut.After(now)
		var review *domainreviews.Review
		if reviews := unit.Reviews(); reviews != nil {
			if existing, err := reviews.ByBooking(execCtx, bk.ID, customerID); err == nil {
				review = existing
				canReview = false
			} else if err != nil && !errors.Is(err, domainreviews.ErrNotFound) && h.Logger != nil {
				h.Logger.Warn("failed to check review", "booking_id", bk.ID, "customer_id", customerID, "error", err)
			}
		}
		items = append(items, dto.MapCustomerBookingSummary(bk, review, canReview))
	}

	if h.Logger != nil {
		h.Logger.Debug("customer bookings listed", "customer_id", customerID, "count", len(items))
	}

	return dto.CustomerBookingCollection{Items: items}, nil
}

var _ queries.Handler[ListCustomerBookingsQuery, dto.CustomerBookingCollection] = (*ListCustomerBookingsHandler)(nil)
