package availability

import (
	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/suites"
)

// ExistingBooking is a committed reservation against one suite, already
// scoped to the caller's facility.
type ExistingBooking struct {
	SuiteID suites.SuiteID
	Range   daterange.DateRange
}

// IsAvailable reports whether the requested range is free against the
// bookings of a single suite. Ranges are half-open, so a checkout exactly at
// the new check-in instant does not conflict (same-day turnover).
//
// Deterministic and stateless; the result is only trustworthy inside the
// same atomic unit that commits the reservation (see SuiteCalendar.Reserve).
func IsAvailable(requested daterange.DateRange, existing []ExistingBooking) bool {
	for _, b := range existing {
		if requested.Overlaps(b.Range) {
			return false
		}
	}
	return true
}
