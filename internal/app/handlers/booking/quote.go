package booking

import (
	"context"
	"time"

	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainbooking "petlodge/internal/domain/booking"
	domainpricing "petlodge/internal/domain/pricing"
	domainrange "petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
	domainsuites "petlodge/internal/domain/suites"
)

const getQuoteKey = "booking.quote"

// GetQuoteQuery prices a prospective stay for one suite without creating
// anything.
type GetQuoteQuery struct {
	SuiteID  string
	CheckIn  time.Time
	CheckOut time.Time
	PetCount int
	AddOns   []AddOnInput
	TaxRate  float64
	Daycare  bool
}

func (q GetQuoteQuery) Key() string { return getQuoteKey }

type QuoteResult struct {
	SuiteID       string `json:"suite_id"`
	Nights        int    `json:"nights"`
	Hours         int    `json:"hours,omitempty"`
	SubtotalCents int64  `json:"subtotal_cents"`
	DiscountCents int64  `json:"discount_cents"`
	AddOnsCents   int64  `json:"add_ons_cents"`
	TaxCents      int64  `json:"tax_cents"`
	TotalCents    int64  `json:"total_cents"`
	Currency      string `json:"currency"`
}

type GetQuoteHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *GetQuoteHandler) Handle(ctx context.Context, q GetQuoteQuery) (*QuoteResult, error) {
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	suite, err := unit.Suites().ByID(execCtx, domainsuites.SuiteID(q.SuiteID))
	if err != nil {
		return nil, err
	}

	rules := domainbooking.StayRules{MinimumNights: suite.MinNights, MaxAdvanceDays: suite.MaxAdvanceDays}
	if q.Daycare {
		rules.MinimumNights = 0
	}
	if res := domainbooking.ValidateStay(q.CheckIn, q.CheckOut, rules, now); !res.Valid {
		return nil, domainbooking.StayRejectedError{Result: res}
	}

	breakdown, err := unit.Pricing().Calculate(domainpricing.QuoteInput{
		ServicePrice: money.Money{Amount: suite.NightlyRateCents, Currency: money.DefaultCurrency},
		Range:        dr,
		PetCount:     q.PetCount,
		AddOns:       toAddOns(q.AddOns),
		TaxRate:      q.TaxRate,
		Daycare:      q.Daycare,
	})
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		SuiteID:       q.SuiteID,
		Nights:        breakdown.Nights,
		Hours:         breakdown.Hours,
		SubtotalCents: breakdown.Subtotal.Amount,
		DiscountCents: breakdown.Discount.Amount,
		AddOnsCents:   breakdown.AddOnsTotal.Amount,
		TaxCents:      breakdown.Tax.Amount,
		TotalCents:    breakdown.Total.Amount,
		Currency:      breakdown.Total.Currency,
	}, nil
}

var _ queries.Handler[GetQuoteQuery, *QuoteResult] = (*GetQuoteHandler)(nil)
