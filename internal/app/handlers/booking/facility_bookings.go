package booking

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/outbox"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainsuites "petlodge/internal/domain/suites"
)

const (
	listFacilityBookingsKey   = "facility.bookings.list"
	confirmFacilityBookingKey = "facility.bookings.confirm"
	declineFacilityBookingKey = "facility.bookings.decline"
	checkInBookingKey         = "facility.bookings.checkin"
	checkOutBookingKey        = "facility.bookings.checkout"
	noShowBookingKey          = "facility.bookings.noshow"
	allStatusesFilterValue    = "ALL"
)

var ErrBookingNotOwned = errors.New("booking: not owned by facility")

type ListFacilityBookingsQuery struct {
	FacilityID string
	Status     string
}

func (q ListFacilityBookingsQuery) Key() string { return listFacilityBookingsKey }

type ListFacilityBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListFacilityBookingsHandler) Handle(ctx context.Context, q ListFacilityBookingsQuery) (dto.FacilityBookingCollection, error) {
	facilityID := strings.TrimSpace(q.FacilityID)
	if facilityID == "" {
		return dto.FacilityBookingCollection{}, errors.New("facility id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.FacilityBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Booking().ListByFacility(execCtx, domainsuites.FacilityID(facilityID))
	if err != nil {
		return dto.FacilityBookingCollection{}, err
	}

	statusFilter := strings.ToUpper(strings.TrimSpace(q.Status))
	if statusFilter == "" {
		statusFilter = string(domainbooking.StatePending)
	}
	allStatuses := statusFilter == allStatusesFilterValue

	items := make([]dto.FacilityBookingSummary, 0, len(bookings))
	for _, bk := range bookings {
		if !allStatuses && string(bk.State) != statusFilter {
			continue
		}
		items = append(items, dto.MapFacilityBookingSummary(bk))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if h.Logger != nil {
		h.Logger.Debug("facility bookings listed", "facility_id", facilityID, "count", len(items), "status", statusFilter)
	}

	return dto.FacilityBookingCollection{Items: items}, nil
}

type ConfirmFacilityBookingCommand struct {
	FacilityID string
	BookingID  string
}

func (c ConfirmFacilityBookingCommand) Key() string { return confirmFacilityBookingKey }

type DeclineFacilityBookingCommand struct {
	FacilityID string
	BookingID  string
	Reason     string
}

func (c DeclineFacilityBookingCommand) Key() string { return declineFacilityBookingKey }

type FacilityBookingActionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type ConfirmFacilityBookingHandler struct {
	Logger *slog.Logger
}

func (h *ConfirmFacilityBookingHandler) Handle(ctx context.Context, cmd ConfirmFacilityBookingCommand) (*FacilityBookingActionResult, error) {
	bk, unit, err := ownedBooking(ctx, cmd.FacilityID, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := bk.Confirm(now); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("facility booking confirmed", "booking_id", bk.ID, "facility_id", cmd.FacilityID)
	}

	return &FacilityBookingActionResult{BookingID: string(bk.ID), Status: string(bk.State)}, nil
}

// DeclineFacilityBookingHandler declines a pending request and frees the
// calendar holds placed when the request was created.
type DeclineFacilityBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *DeclineFacilityBookingHandler) Handle(ctx context.Context, cmd DeclineFacilityBookingCommand) (*FacilityBookingActionResult, error) {
	bk, unit, err := ownedBooking(ctx, cmd.FacilityID, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = "facility-declined"
	}

	now := time.Now().UTC()
	if err := bk.Decline(reason, now); err != nil {
		return nil, err
	}
	if err := releaseCalendars(ctx, unit, bk, now, h.Outbox, h.Encoder); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("facility booking declined", "booking_id", bk.ID, "facility_id", cmd.FacilityID, "reason", reason)
	}

	return &FacilityBookingActionResult{BookingID: string(bk.ID), Status: string(bk.State)}, nil
}

type CheckInBookingCommand struct {
	FacilityID string
	BookingID  string
}

func (c CheckInBookingCommand) Key() string { return checkInBookingKey }

type CheckInBookingHandler struct {
	Logger *slog.Logger
}

func (h *CheckInBookingHandler) Handle(ctx context.Context, cmd CheckInBookingCommand) (*FacilityBookingActionResult, error) {
	bk, unit, err := ownedBooking(ctx, cmd.FacilityID, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := bk.CheckIn(now); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking checked in", "booking_id", bk.ID)
	}
	return &FacilityBookingActionResult{BookingID: string(bk.ID), Status: string(bk.State)}, nil
}

type CheckOutBookingCommand struct {
	FacilityID string
	BookingID  string
}

func (c CheckOutBookingCommand) Key() string { return checkOutBookingKey }

type CheckOutBookingHandler struct {
	Logger *slog.Logger
}

func (h *CheckOutBookingHandler) Handle(ctx context.Context, cmd CheckOutBookingCommand) (*FacilityBookingActionResult, error) {
	bk, unit, err := ownedBooking(ctx, cmd.FacilityID, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := bk.CheckOut(now); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking checked out", "booking_id", bk.ID)
	}
	return &FacilityBookingActionResult{BookingID: string(bk.ID), Status: string(bk.State)}, nil
}

type MarkNoShowCommand struct {
	FacilityID string
	BookingID  string
}

func (c MarkNoShowCommand) Key() string { return noShowBookingKey }

type MarkNoShowHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *MarkNoShowHandler) Handle(ctx context.Context, cmd MarkNoShowCommand) (*FacilityBookingActionResult, error) {
	bk, unit, err := ownedBooking(ctx, cmd.FacilityID, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := bk.MarkNoShow(now); err != nil {
		return nil, err
	}
	if err := releaseCalendars(ctx, unit, bk, now, h.Outbox, h.Encoder); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking marked no-show", "booking_id", bk.ID)
	}
	return &FacilityBookingActionResult{BookingID: string(bk.ID), Status: string(bk.State)}, nil
}

func ownedBooking(ctx context.Context, facilityID, bookingID string) (*domainbooking.Booking, uow.UnitOfWork, error) {
	facilityID = strings.TrimSpace(facilityID)
	if facilityID == "" {
		return nil, nil, errors.New("facility id is required")
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, nil, errors.New("booking id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	bk, err := unit.Booking().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, nil, err
	}
	if bk.FacilityID != domainsuites.FacilityID(facilityID) {
		return nil, nil, ErrBookingNotOwned
	}
	return bk, unit, nil
}

func releaseCalendars(ctx context.Context, unit uow.UnitOfWork, bk *domainbooking.Booking, now time.Time, box outbox.Outbox, encoder outbox.EventEncoder) error {
	for _, suiteID := range bk.SuiteIDs() {
		cal, err := unit.Availability().Calendar(ctx, suiteID)
		if err != nil {
			if errors.Is(err, domainavailability.ErrCalendarNotFound) {
				continue
			}
			return err
		}
		if err := cal.Release(string(bk.ID), now); err != nil {
			if errors.Is(err, domainavailability.ErrRangeNotFound) {
				continue
			}
			return err
		}
		if err := unit.Availability().Save(ctx, cal); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, box, encoder, cal.PendingEvents()); err != nil {
			return err
		}
		cal.ClearEvents()
	}
	return nil
}

var _ queries.Handler[ListFacilityBookingsQuery, dto.FacilityBookingCollection] = (*ListFacilityBookingsHandler)(nil)
var _ commands.Handler[ConfirmFacilityBookingCommand, *FacilityBookingActionResult] = (*ConfirmFacilityBookingHandler)(nil)
var _ commands.Handler[DeclineFacilityBookingCommand, *FacilityBookingActionResult] = (*DeclineFacilityBookingHandler)(nil)
var _ commands.Handler[CheckInBookingCommand, *FacilityBookingActionResult] = (*CheckInBookingHandler)(nil)
var _ commands.Handler[CheckOutBookingCommand, *FacilityBookingActionResult] = (*CheckOutBookingHandler)(nil)
var _ commands.Handler[MarkNoShowCommand, *FacilityBookingActionResult] = (*MarkNoShowHandler)(nil)
