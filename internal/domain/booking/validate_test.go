package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var clock = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func at(d int, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestValidateStayAccepts(t *testing.T) {
	res := ValidateStay(at(12, 14), at(15, 11), StayRules{MinimumNights: 2, MaxAdvanceDays: 90}, clock)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Reason)
}

func TestValidateStayCheckOutNotAfterCheckIn(t *testing.T) {
	res := ValidateStay(at(12, 14), at(12, 14), StayRules{}, clock)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonCheckOutNotAfterCheckIn, res.Reason)

	res = ValidateStay(at(15, 14), at(12, 11), StayRules{}, clock)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonCheckOutNotAfterCheckIn, res.Reason)
}

func TestValidateStayCheckInInPast(t *testing.T) {
	res := ValidateStay(at(9, 14), at(12, 11), StayRules{}, clock)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonCheckInInPast, res.Reason)
}

func TestValidateStaySameDayCheckInAllowed(t *testing.T) {
	// Earlier the same day is fine, the cutoff is midnight not the clock.
	res := ValidateStay(at(10, 8), at(12, 11), StayRules{}, clock)
	assert.True(t, res.Valid)
}

func TestValidateStayBelowMinimumNights(t *testing.T) {
	res := ValidateStay(at(12, 14), at(13, 11), StayRules{MinimumNights: 3}, clock)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonBelowMinimumNights, res.Reason)

	// Zero disables the rule.
	res = ValidateStay(at(12, 14), at(13, 11), StayRules{}, clock)
	assert.True(t, res.Valid)
}

func TestValidateStayPartialNightCountsWhole(t *testing.T) {
	// 2 days + 3 hours rounds to 3 nights, satisfying the minimum.
	res := ValidateStay(at(12, 12), at(14, 15), StayRules{MinimumNights: 3}, clock)
	assert.True(t, res.Valid)
}

func TestValidateStayTooFarInAdvance(t *testing.T) {
	res := ValidateStay(at(25, 14), at(27, 11), StayRules{MaxAdvanceDays: 10}, clock)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonTooFarInAdvance, res.Reason)

	res = ValidateStay(at(20, 14), at(22, 11), StayRules{MaxAdvanceDays: 10}, clock)
	assert.True(t, res.Valid)
}

func TestValidateStayFirstFailureWins(t *testing.T) {
	// Inverted range in the past with rule violations: order rejects on the
	// range before anything else.
	res := ValidateStay(at(5, 14), at(3, 11), StayRules{MinimumNights: 5, MaxAdvanceDays: 1}, clock)
	assert.Equal(t, ReasonCheckOutNotAfterCheckIn, res.Reason)

	// Past check-in beats the minimum-nights violation.
	res = ValidateStay(at(8, 14), at(9, 11), StayRules{MinimumNights: 5}, clock)
	assert.Equal(t, ReasonCheckInInPast, res.Reason)
}

func TestValidateStayMidnightFollowsClockZone(t *testing.T) {
	// Facility clock runs ten hours ahead of UTC: 01:00 on March 10 local,
	// still March 9 in UTC.
	facility := time.FixedZone("UTC+10", 10*60*60)
	localClock := time.Date(2026, time.March, 10, 1, 0, 0, 0, facility)

	// 20:00 March 9 local is before the facility's midnight even though the
	// UTC day has not rolled over yet.
	res := ValidateStay(
		time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 12, 1, 0, 0, 0, time.UTC),
		StayRules{}, localClock)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonCheckInInPast, res.Reason)

	// Later the same local day is fine.
	res = ValidateStay(
		time.Date(2026, time.March, 10, 8, 0, 0, 0, facility),
		time.Date(2026, time.March, 12, 11, 0, 0, 0, facility),
		StayRules{}, localClock)
	assert.True(t, res.Valid)
}

func TestValidateStayDaycareSameDay(t *testing.T) {
	res := ValidateStay(at(12, 8), at(12, 18), StayRules{}, clock)
	assert.True(t, res.Valid)
}

func TestStayRejectedErrorMessage(t *testing.T) {
	res := ValidateStay(at(9, 14), at(12, 11), StayRules{}, clock)
	err := StayRejectedError{Result: res}
	assert.Contains(t, err.Error(), string(ReasonCheckInInPast))
}
