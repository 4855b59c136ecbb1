package booking

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/middleware"
	"petlodge/internal/app/outbox"
	"petlodge/internal/app/uow"
	domainassignment "petlodge/internal/domain/assignment"
	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainpricing "petlodge/internal/domain/pricing"
	domainrange "petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
	domainsuites "petlodge/internal/domain/suites"
)

const requestBookingKey = "booking.request"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrNoSuitesAvailable  = errors.New("booking: no suites available for the requested dates")
)

type AddOnInput struct {
	Code       string
	Name       string
	PriceCents int64
}

type RequestBookingCommand struct {
	CommandID       string
	FacilityID      string
	CustomerID      string
	PetIDs          []string
	SuiteType       string
	CheckIn         time.Time
	CheckOut        time.Time
	Daycare         bool
	AddOns          []AddOnInput
	TaxRate         float64
	PreferSameSuite bool
	PreferNearby    bool
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

// Validate covers the structural checks the pipeline middleware runs before
// dispatch; business rules stay in the handler.
func (c RequestBookingCommand) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.CommandID) == "" {
		return errors.New("booking: command id is required")
	}
	if strings.TrimSpace(c.CustomerID) == "" {
		return errors.New("booking: customer id is required")
	}
	if strings.TrimSpace(c.FacilityID) == "" {
		return errors.New("booking: facility id is required")
	}
	if len(c.PetIDs) == 0 {
		return domainbooking.ErrNoPets
	}
	return nil
}

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID   string              `json:"booking_id"`
	Assignments map[string][]string `json:"assignments"`
	TotalCents  int64               `json:"total_cents"`
}

// RequestBookingHandler runs the whole request pipeline inside one unit of
// work: validate the stay, filter candidate suites by calendar availability,
// assign pets, price the stay, then create the booking and reserve every
// assigned calendar. Reserving re-checks each calendar before the write, so
// a concurrent request for the same suite loses at commit, not after.
type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	// SanitationGapHours seeds calendars created on first reservation.
	SanitationGapHours int
	Now                func() time.Time
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := h.now()
	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	if res := domainbooking.ValidateStay(cmd.CheckIn, cmd.CheckOut, domainbooking.StayRules{}, now); !res.Valid {
		return nil, domainbooking.StayRejectedError{Result: res}
	}

	if err := h.verifyPets(ctx, unit, cmd, dr); err != nil {
		return nil, err
	}

	candidates, err := h.candidateSuites(ctx, unit, cmd, now)
	if err != nil {
		return nil, err
	}

	pool := make([]domainassignment.Unit, 0, len(candidates))
	calendars := make(map[domainsuites.SuiteID]*domainavailability.SuiteCalendar, len(candidates))
	ratesBySuite := make(map[domainsuites.SuiteID]int64, len(candidates))
	for _, suite := range candidates {
		cal, err := unit.Availability().Calendar(ctx, suite.ID)
		if err != nil {
			if errors.Is(err, domainavailability.ErrCalendarNotFound) {
				cal = domainavailability.NewCalendar(suite.ID, h.SanitationGapHours)
			} else {
				return nil, err
			}
		}
		if !cal.CanReserve(dr) {
			continue
		}
		pool = append(pool, domainassignment.Unit{
			ID:           suite.ID,
			Capacity:     suite.Capacity,
			LocationCode: suite.LocationCode,
		})
		calendars[suite.ID] = cal
		ratesBySuite[suite.ID] = suite.NightlyRateCents
	}
	if len(pool) == 0 {
		return nil, ErrNoSuitesAvailable
	}

	assigned, err := domainassignment.Assign(cmd.PetIDs, pool, domainassignment.Options{
		PreferSameSuite: cmd.PreferSameSuite,
		PreferNearby:    cmd.PreferNearby,
	})
	if err != nil {
		return nil, err
	}

	quote := domainpricing.QuoteInput{
		ServicePrice: money.Money{Amount: highestRate(assigned, ratesBySuite), Currency: money.DefaultCurrency},
		Range:        dr,
		PetCount:     len(cmd.PetIDs),
		AddOns:       toAddOns(cmd.AddOns),
		TaxRate:      cmd.TaxRate,
		Daycare:      cmd.Daycare,
	}
	price, err := unit.Pricing().Calculate(quote)
	if err != nil {
		return nil, err
	}

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(cmd.CommandID),
		FacilityID:  domainsuites.FacilityID(cmd.FacilityID),
		CustomerID:  cmd.CustomerID,
		PetIDs:      cmd.PetIDs,
		Assignments: assigned.Assignments,
		ServiceCode: serviceCode(cmd.Daycare),
		Range:       dr,
		Daycare:     cmd.Daycare,
		Price:       price,
		Policy:      defaultPolicy(dr, now),
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	for suiteID := range assigned.Assignments {
		cal := calendars[suiteID]
		if err := cal.Reserve(dr, string(bk.ID), now); err != nil {
			return nil, err
		}
		if err := unit.Availability().Save(ctx, cal); err != nil {
			return nil, err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), cal.PendingEvents()); err != nil {
			return nil, err
		}
		cal.ClearEvents()
	}

	if err := unit.Booking().Save(ctx, bk); err != nil {
		return nil, err
	}
	evs := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{
		BookingID:   string(bk.ID),
		Assignments: exportAssignments(assigned.Assignments),
		TotalCents:  price.Total.Amount,
	}, nil
}

// verifyPets confirms every pet belongs to the requesting customer and
// stays vaccinated through check-out.
func (h *RequestBookingHandler) verifyPets(ctx context.Context, unit uow.UnitOfWork, cmd RequestBookingCommand, dr domainrange.DateRange) error {
	if len(cmd.PetIDs) == 0 {
		return domainbooking.ErrNoPets
	}
	for _, raw := range cmd.PetIDs {
		pet, err := unit.Pets().ByID(ctx, domainpets.PetID(raw))
		if err != nil {
			return err
		}
		if pet.OwnerID != cmd.CustomerID {
			return domainpets.ErrNotOwner
		}
		if err := pet.FitForBoarding(dr.CheckOut); err != nil {
			return err
		}
	}
	return nil
}

// candidateSuites returns the facility's active suites whose stay rules
// admit the requested dates, in id order.
func (h *RequestBookingHandler) candidateSuites(ctx context.Context, unit uow.UnitOfWork, cmd RequestBookingCommand, now time.Time) ([]*domainsuites.Suite, error) {
	params := domainsuites.SearchParams{
		Facility:   domainsuites.FacilityID(cmd.FacilityID),
		OnlyActive: true,
		Limit:      domainsuites.MaxSearchLimit,
	}
	if cmd.SuiteType != "" {
		suiteType, err := domainsuites.ParseSuiteType(cmd.SuiteType)
		if err != nil {
			return nil, err
		}
		params.Types = []domainsuites.SuiteType{suiteType}
	}
	result, err := unit.Suites().Search(ctx, params)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domainsuites.Suite, 0, len(result.Items))
	for _, suite := range result.Items {
		rules := domainbooking.StayRules{MinimumNights: suite.MinNights, MaxAdvanceDays: suite.MaxAdvanceDays}
		if cmd.Daycare {
			rules.MinimumNights = 0
		}
		if res := domainbooking.ValidateStay(cmd.CheckIn, cmd.CheckOut, rules, now); !res.Valid {
			continue
		}
		candidates = append(candidates, suite)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates, nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

// highestRate prices mixed-suite stays at the most expensive assigned rate
// so a split across cheaper overflow suites never undercharges the stay.
func highestRate(assigned domainassignment.Result, rates map[domainsuites.SuiteID]int64) int64 {
	var max int64
	for suiteID := range assigned.Assignments {
		if rate := rates[suiteID]; rate > max {
			max = rate
		}
	}
	return max
}

func toAddOns(in []AddOnInput) []domainpricing.AddOn {
	out := make([]domainpricing.AddOn, 0, len(in))
	for _, a := range in {
		out = append(out, domainpricing.AddOn{
			Code:  a.Code,
			Name:  a.Name,
			Price: money.Money{Amount: a.PriceCents, Currency: money.DefaultCurrency},
		})
	}
	return out
}

func serviceCode(daycare bool) string {
	if daycare {
		return "DAYCARE"
	}
	return "BOARDING"
}

func exportAssignments(in map[domainsuites.SuiteID][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for id, pets := range in {
		out[string(id)] = append([]string(nil), pets...)
	}
	return out
}

// defaultPolicy gives free cancellation until 48 hours before check-in,
// then a 50% penalty, 100% once the stay has started.
func defaultPolicy(dr domainrange.DateRange, now time.Time) domainbooking.CancellationPolicySnapshot {
	free := dr.CheckIn.Add(-48 * time.Hour)
	if free.Before(now) {
		free = now
	}
	return domainbooking.CancellationPolicySnapshot{
		PolicyID:                  "standard-48h",
		FreeCancellationUntil:     free,
		PreCheckInPenaltyPercent:  50,
		PostCheckInPenaltyPercent: 100,
	}
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
