package dto

import (
	"time"

	"petlodge/internal/domain/availability"
)

type CalendarBlock struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Reason string    `json:"reason"`
}

type Calendar struct {
	SuiteID string          `json:"suite_id"`
	Blocks  []CalendarBlock `json:"blocks"`
}

func MapCalendar(cal *availability.SuiteCalendar) Calendar {
	if cal == nil {
		return Calendar{}
	}
	blocks := make([]CalendarBlock, 0, len(cal.Blocks))
	for _, b := range cal.Blocks {
		blocks = append(blocks, CalendarBlock{
			From:   b.Range.CheckIn,
			To:     b.Range.CheckOut,
			Reason: string(b.Reason),
		})
	}
	return Calendar{SuiteID: string(cal.SuiteID), Blocks: blocks}
}

// MapCalendarWithin keeps only the blocks intersecting the given window.
// A zero window boundary means unbounded on that side.
func MapCalendarWithin(cal *availability.SuiteCalendar, from, to time.Time) Calendar {
	if cal == nil {
		return Calendar{}
	}
	blocks := make([]CalendarBlock, 0, len(cal.Blocks))
	for _, b := range cal.Blocks {
		if !from.IsZero() && !b.Range.CheckOut.After(from) {
			continue
		}
		if !to.IsZero() && !b.Range.CheckIn.Before(to) {
			continue
		}
		blocks = append(blocks, CalendarBlock{
			From:   b.Range.CheckIn,
			To:     b.Range.CheckOut,
			Reason: string(b.Reason),
		})
	}
	return Calendar{SuiteID: string(cal.SuiteID), Blocks: blocks}
}

type SuiteAvailability struct {
	SuiteID   string `json:"suite_id"`
	Available bool   `json:"available"`
}

// AvailabilityReport answers a multi-suite availability probe for one stay.
type AvailabilityReport struct {
	CheckIn  time.Time           `json:"check_in"`
	CheckOut time.Time           `json:"check_out"`
	Suites   []SuiteAvailability `json:"suites"`
}
