package booking

import (
	"fmt"
	"time"
)

// RejectReason identifies which stay rule a request failed. Stable codes,
// safe to expose through the API.
type RejectReason string

const (
	ReasonCheckOutNotAfterCheckIn RejectReason = "CHECKOUT_NOT_AFTER_CHECKIN"
	ReasonCheckInInPast           RejectReason = "CHECKIN_IN_PAST"
	ReasonBelowMinimumNights      RejectReason = "BELOW_MINIMUM_NIGHTS"
	ReasonTooFarInAdvance         RejectReason = "TOO_FAR_IN_ADVANCE"
)

// StayRules are the per-suite temporal constraints applied to a requested
// stay. Zero values disable the optional rules.
type StayRules struct {
	MinimumNights  int
	MaxAdvanceDays int
}

// ValidationResult reports a business-rule outcome. An invalid stay is a
// normal answer, not an error.
type ValidationResult struct {
	Valid  bool
	Reason RejectReason
	Detail string
}

func valid() ValidationResult { return ValidationResult{Valid: true} }

func invalid(reason RejectReason, detail string) ValidationResult {
	return ValidationResult{Reason: reason, Detail: detail}
}

// StayRejectedError adapts a failed ValidationResult for call sites that
// propagate errors.
type StayRejectedError struct {
	Result ValidationResult
}

func (e StayRejectedError) Error() string {
	return fmt.Sprintf("booking: stay rejected (%s): %s", e.Result.Reason, e.Result.Detail)
}

// ValidateStay checks a requested stay against the temporal rules, in a
// fixed order with the first failure winning:
//
//  1. check-out must come strictly after check-in (same calendar day is
//     fine for daycare, the timestamps still have to advance),
//  2. check-in must not fall before today's midnight in the clock's zone,
//  3. the stay must reach the minimum nights, when one is set,
//  4. check-in must fall inside the advance-booking window, when one is set.
//
// Pure with respect to the clock: now is injected by the caller, and its
// location decides where "today" starts.
func ValidateStay(checkIn, checkOut time.Time, rules StayRules, now time.Time) ValidationResult {
	if !checkOut.After(checkIn) {
		return invalid(ReasonCheckOutNotAfterCheckIn, "check-in must precede check-out")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if checkIn.Before(today) {
		return invalid(ReasonCheckInInPast, "check-in date is in the past")
	}

	if rules.MinimumNights > 0 {
		if nights := ceilDays(checkOut.Sub(checkIn)); nights < rules.MinimumNights {
			return invalid(ReasonBelowMinimumNights,
				fmt.Sprintf("stay is %d night(s), minimum is %d", nights, rules.MinimumNights))
		}
	}

	if rules.MaxAdvanceDays > 0 {
		if ahead := ceilDays(checkIn.Sub(today)); ahead > rules.MaxAdvanceDays {
			return invalid(ReasonTooFarInAdvance,
				fmt.Sprintf("check-in is %d day(s) ahead, bookings open %d day(s) out", ahead, rules.MaxAdvanceDays))
		}
	}

	return valid()
}

func ceilDays(d time.Duration) int {
	const day = 24 * time.Hour
	if d <= 0 {
		return 0
	}
	return int((d + day - 1) / day)
}
