package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petlodge/internal/domain/pricing"
	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
	"petlodge/internal/domain/suites"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := daterange.New(at(12, 14), at(15, 11))
	require.NoError(t, err)
	b, err := NewBooking(CreateParams{
		ID:         "bk-1",
		FacilityID: "facility-downtown",
		CustomerID: "cust-1",
		PetIDs:     []string{"pet-1", "pet-2"},
		Assignments: map[suites.SuiteID][]string{
			"suite-b": {"pet-2"},
			"suite-a": {"pet-1"},
		},
		ServiceCode: "BOARDING",
		Range:       dr,
		Price: pricing.Breakdown{
			Total: money.Must(10000, money.DefaultCurrency),
		},
		Policy: CancellationPolicySnapshot{
			PolicyID:                  "standard",
			FreeCancellationUntil:     at(11, 0),
			PreCheckInPenaltyPercent:  20,
			PostCheckInPenaltyPercent: 100,
		},
		CreatedAt: clock,
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingValidation(t *testing.T) {
	dr, err := daterange.New(at(12, 14), at(15, 11))
	require.NoError(t, err)

	_, err = NewBooking(CreateParams{ID: "bk", CustomerID: "c", Range: dr,
		Assignments: map[suites.SuiteID][]string{"s": {"p"}}})
	assert.ErrorIs(t, err, ErrNoPets)

	_, err = NewBooking(CreateParams{ID: "bk", CustomerID: "c", PetIDs: []string{"p"}, Range: dr})
	assert.ErrorIs(t, err, ErrNoAssignments)
}

func TestNewBookingStartsPendingAndRecordsRequest(t *testing.T) {
	b := newTestBooking(t)
	assert.Equal(t, StatePending, b.State)

	pending := b.PendingEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, string(b.ID), pending[0].AggregateID())
}

func TestPrimarySuiteIDIsLowest(t *testing.T) {
	b := newTestBooking(t)
	assert.Equal(t, suites.SuiteID("suite-a"), b.PrimarySuiteID())
	assert.ElementsMatch(t, []suites.SuiteID{"suite-a", "suite-b"}, b.SuiteIDs())
}

func TestConfirmOnlyFromPending(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm(clock))
	assert.Equal(t, StateConfirmed, b.State)
	assert.ErrorIs(t, b.Confirm(clock), ErrInvalidState)
}

func TestDeclineOnlyFromPending(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Decline("no staff", clock))
	assert.Equal(t, StateDeclined, b.State)
	assert.ErrorIs(t, b.Decline("again", clock), ErrInvalidState)
}

func TestExpireOnlyFromPending(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm(clock))
	assert.ErrorIs(t, b.Expire(clock), ErrInvalidState)

	b = newTestBooking(t)
	require.NoError(t, b.Expire(clock))
	assert.Equal(t, StateExpired, b.State)
}

func TestCheckInLifecycle(t *testing.T) {
	b := newTestBooking(t)
	assert.ErrorIs(t, b.CheckIn(clock), ErrInvalidState)

	require.NoError(t, b.Confirm(clock))
	require.NoError(t, b.CheckIn(clock))
	assert.Equal(t, StateCheckedIn, b.State)

	require.NoError(t, b.CheckOut(clock))
	assert.Equal(t, StateCheckedOut, b.State)
	assert.ErrorIs(t, b.CheckOut(clock), ErrInvalidState)
}

func TestNoShowRequiresConfirmed(t *testing.T) {
	b := newTestBooking(t)
	assert.ErrorIs(t, b.MarkNoShow(clock), ErrInvalidState)

	require.NoError(t, b.Confirm(clock))
	require.NoError(t, b.MarkNoShow(clock))
	assert.Equal(t, StateNoShow, b.State)
}

func TestCancelFreeWindow(t *testing.T) {
	b := newTestBooking(t)
	refund, penalty, err := b.Cancel("change of plans", at(10, 12))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), refund.Amount)
	assert.Equal(t, int64(0), penalty.Amount)
	assert.Equal(t, StateCancelled, b.State)
}

func TestCancelAfterFreeWindowAppliesPenalty(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm(clock))
	refund, penalty, err := b.Cancel("late", at(11, 12))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), penalty.Amount)
	assert.Equal(t, int64(8000), refund.Amount)
}

func TestCancelAfterCheckInStart(t *testing.T) {
	b := newTestBooking(t)
	refund, penalty, err := b.Cancel("mid-stay", at(13, 9))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), penalty.Amount)
	assert.Equal(t, int64(0), refund.Amount)
}

func TestCancelInvalidAfterTerminalState(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Decline("no", clock))
	_, _, err := b.Cancel("too late", clock)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAssignmentsAreCopied(t *testing.T) {
	dr, err := daterange.New(at(12, 14), at(15, 11))
	require.NoError(t, err)
	src := map[suites.SuiteID][]string{"suite-a": {"pet-1"}}
	b, err := NewBooking(CreateParams{
		ID: "bk-copy", CustomerID: "c", PetIDs: []string{"pet-1"},
		Assignments: src, Range: dr, CreatedAt: clock,
	})
	require.NoError(t, err)

	src["suite-a"][0] = "mutated"
	assert.Equal(t, "pet-1", b.Assignments["suite-a"][0])
}

func TestCancellationPolicyClampsPercent(t *testing.T) {
	policy := CancellationPolicySnapshot{PolicyID: "odd", PreCheckInPenaltyPercent: 150}
	total := money.Must(4000, money.DefaultCurrency)
	refund, penalty, err := policy.CalculateRefund(total, at(11, 0), at(12, 14))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), penalty.Amount)
	assert.Equal(t, int64(0), refund.Amount)
}

func TestCancellationPolicyZeroValueRefundsEverything(t *testing.T) {
	var policy CancellationPolicySnapshot
	total := money.Must(4000, money.DefaultCurrency)
	refund, penalty, err := policy.CalculateRefund(total, time.Time{}, at(12, 14))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), refund.Amount)
	assert.True(t, penalty.IsZero())
}
