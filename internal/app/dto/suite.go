package dto

import (
	"time"

	domainavailability "petlodge/internal/domain/availability"
	domainsuites "petlodge/internal/domain/suites"
)

// AvailabilityWindow describes the time window used to build the response.
type AvailabilityWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SuiteOverview aggregates suite details and calendar information.
type SuiteOverview struct {
	ID                 string             `json:"id"`
	FacilityID         string             `json:"facility_id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Type               string             `json:"type"`
	Capacity           int                `json:"capacity"`
	LocationCode       string             `json:"location_code"`
	Features           []string           `json:"features"`
	MinNights          int                `json:"min_nights"`
	MaxNights          int                `json:"max_nights"`
	MaxAdvanceDays     int                `json:"max_advance_days"`
	NightlyRateCents   int64              `json:"nightly_rate_cents"`
	Rating             float64            `json:"rating"`
	Photos             []string           `json:"photos"`
	State              string             `json:"state"`
	Calendar           Calendar           `json:"calendar"`
	AvailabilityWindow AvailabilityWindow `json:"availability_window"`
}

// MapSuiteOverview builds a DTO that is convenient for the frontend.
func MapSuiteOverview(
	suite *domainsuites.Suite,
	calendar *domainavailability.SuiteCalendar,
	windowFrom, windowTo time.Time,
) SuiteOverview {
	if suite == nil {
		return SuiteOverview{}
	}
	overview := SuiteOverview{
		ID:                 string(suite.ID),
		FacilityID:         string(suite.Facility),
		Name:               suite.Name,
		Description:        suite.Description,
		Type:               string(suite.Type),
		Capacity:           suite.Capacity,
		LocationCode:       suite.LocationCode,
		Features:           append([]string(nil), suite.Features...),
		MinNights:          suite.MinNights,
		MaxNights:          suite.MaxNights,
		MaxAdvanceDays:     suite.MaxAdvanceDays,
		NightlyRateCents:   suite.NightlyRateCents,
		Rating:             suite.Rating,
		Photos:             append([]string(nil), suite.Photos...),
		State:              string(suite.State),
		AvailabilityWindow: AvailabilityWindow{From: windowFrom, To: windowTo},
	}
	overview.Calendar = MapCalendarWithin(calendar, windowFrom, windowTo)
	return overview
}
