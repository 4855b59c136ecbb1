package suites

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/policies"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

const rateSuggestionKey = "facility.suites.rate_suggestion"

type SuiteRateSuggestionQuery struct {
	FacilityID string
	SuiteID    string
	CheckIn    time.Time
	CheckOut   time.Time
}

func (q SuiteRateSuggestionQuery) Key() string { return rateSuggestionKey }

// SuiteRateSuggestionHandler asks the rate model for a recommended nightly
// rate and compares it with the suite's current rate.
type SuiteRateSuggestionHandler struct {
	Logger     *slog.Logger
	Rates      policies.RatesPort
	UoWFactory uow.UoWFactory
}

func (h *SuiteRateSuggestionHandler) Handle(ctx context.Context, q SuiteRateSuggestionQuery) (dto.SuiteRateSuggestion, error) {
	var zero dto.SuiteRateSuggestion
	if strings.TrimSpace(q.FacilityID) == "" {
		return zero, errors.New("facility id is required")
	}
	if strings.TrimSpace(q.SuiteID) == "" {
		return zero, errors.New("suite id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	suite, err := unit.Suites().ByID(execCtx, domainsuites.SuiteID(q.SuiteID))
	if err != nil {
		return zero, err
	}
	if suite.Facility != domainsuites.FacilityID(q.FacilityID) {
		return zero, ErrSuiteNotOwned
	}

	if h.Rates == nil {
		return zero, errors.New("rate service unavailable")
	}

	checkIn := q.CheckIn
	checkOut := q.CheckOut
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		checkIn = time.Now().UTC()
		checkOut = checkIn.AddDate(0, 0, 7)
	}
	dr, err := domainrange.New(checkIn, checkOut)
	if err != nil {
		return zero, err
	}

	recommended, err := h.Rates.SuggestNightlyRate(execCtx, suite, dr)
	if err != nil {
		return zero, err
	}

	current := suite.NightlyRateCents
	level := rateLevelFor(current, recommended)

	result := dto.SuiteRateSuggestion{
		SuiteID:              string(suite.ID),
		RecommendedRateCents: recommended,
		CurrentRateCents:     current,
		RateLevel:            level,
		RateGapPercent:       rateGapPercent(current, recommended),
		Message:              rateMessage(level),
		Range: dto.SuiteDateRange{
			CheckIn:  dr.CheckIn,
			CheckOut: dr.CheckOut,
		},
	}

	if h.Logger != nil {
		h.Logger.Info("rate suggestion generated", "suite_id", suite.ID, "facility_id", q.FacilityID, "level", level)
	}

	return result, nil
}

func rateLevelFor(current, recommended int64) string {
	if recommended == 0 {
		return dto.RateLevelFair
	}
	diff := float64(current-recommended) / float64(recommended)
	if diff <= -0.1 {
		return dto.RateLevelBelowMarket
	}
	if diff >= 0.1 {
		return dto.RateLevelAboveMarket
	}
	return dto.RateLevelFair
}

func rateGapPercent(current, recommended int64) float64 {
	if recommended == 0 {
		return 0
	}
	const percentBase = 100.0
	const precisionBase = 100.0
	percent := (float64(current-recommended) / float64(recommended)) * percentBase
	return math.Round(percent*precisionBase) / precisionBase
}

func rateMessage(level string) string {
	switch level {
	case dto.RateLevelBelowMarket:
		return "The nightly rate sits below comparable suites nearby; a small increase should not cost you occupancy."
	case dto.RateLevelAboveMarket:
		return "The nightly rate is above comparable suites; expect slower fill, or keep it if demand holds."
	default:
		return "The nightly rate looks in line with comparable suites for these dates."
	}
}

var _ queries.Handler[SuiteRateSuggestionQuery, dto.SuiteRateSuggestion] = (*SuiteRateSuggestionHandler)(nil)
