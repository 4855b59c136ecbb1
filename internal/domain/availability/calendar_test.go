package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petlodge/internal/domain/shared/daterange"
)

var now = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func span(t *testing.T, inDay, outDay int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.March, inDay, 12, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, outDay, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func TestIsAvailableAgainstExistingBookings(t *testing.T) {
	existing := []ExistingBooking{
		{SuiteID: "s-1", Range: span(t, 10, 14)},
		{SuiteID: "s-1", Range: span(t, 20, 22)},
	}
	assert.True(t, IsAvailable(span(t, 15, 18), existing))
	assert.False(t, IsAvailable(span(t, 12, 16), existing))
	assert.False(t, IsAvailable(span(t, 8, 25), existing))
	assert.True(t, IsAvailable(span(t, 5, 8), nil))
}

func TestReserveAppendsBookingBlock(t *testing.T) {
	cal := NewCalendar("s-1", 0)
	require.NoError(t, cal.Reserve(span(t, 10, 14), "bk-1", now))

	require.Len(t, cal.Blocks, 1)
	assert.Equal(t, ReasonBooking, cal.Blocks[0].Reason)
	assert.Equal(t, "bk-1", cal.Blocks[0].Reference)
	assert.False(t, cal.CanReserve(span(t, 12, 13)))
}

func TestReservePreventsOverbooking(t *testing.T) {
	cal := NewCalendar("s-1", 0)
	require.NoError(t, cal.Reserve(span(t, 10, 14), "bk-1", now))
	cal.ClearEvents()

	err := cal.Reserve(span(t, 13, 16), "bk-2", now)
	assert.ErrorIs(t, err, ErrOverlappingRange)
	require.Len(t, cal.Blocks, 1)

	pending := cal.PendingEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, "calendar.overbooking_prevented", pending[0].EventName())
}

func TestReserveBackToBackStaysAllowed(t *testing.T) {
	cal := NewCalendar("s-1", 0)
	require.NoError(t, cal.Reserve(span(t, 10, 14), "bk-1", now))
	// Half-open ranges: check-in at the previous checkout instant is fine.
	require.NoError(t, cal.Reserve(span(t, 14, 16), "bk-2", now))
	assert.Len(t, cal.Blocks, 2)
}

func TestReserveAddsSanitationBuffer(t *testing.T) {
	cal := NewCalendar("s-1", 4)
	stay := span(t, 10, 14)
	require.NoError(t, cal.Reserve(stay, "bk-1", now))

	require.Len(t, cal.Blocks, 2)
	buffer := cal.Blocks[1]
	assert.Equal(t, ReasonSanitation, buffer.Reason)
	assert.Equal(t, "bk-1-sanitation", buffer.Reference)
	assert.Equal(t, stay.CheckOut, buffer.Range.CheckIn)
	assert.Equal(t, stay.CheckOut.Add(4*time.Hour), buffer.Range.CheckOut)

	// The buffer blocks an immediate same-instant turnover.
	assert.False(t, cal.CanReserve(span(t, 14, 16)))
}

func TestBlockRangeDefaultsToMaintenance(t *testing.T) {
	cal := NewCalendar("s-1", 0)
	require.NoError(t, cal.BlockRange(span(t, 10, 12), "", "repair", now))
	require.Len(t, cal.Blocks, 1)
	assert.Equal(t, ReasonMaintenance, cal.Blocks[0].Reason)

	err := cal.BlockRange(span(t, 11, 13), ReasonMaintenance, "repair2", now)
	assert.ErrorIs(t, err, ErrOverlappingRange)
}

func TestReleaseRemovesBookingAndBuffer(t *testing.T) {
	cal := NewCalendar("s-1", 4)
	require.NoError(t, cal.Reserve(span(t, 10, 14), "bk-1", now))
	require.NoError(t, cal.Reserve(span(t, 20, 22), "bk-2", now))
	require.Len(t, cal.Blocks, 4)

	require.NoError(t, cal.Release("bk-1", now))
	require.Len(t, cal.Blocks, 2)
	for _, block := range cal.Blocks {
		assert.Contains(t, block.Reference, "bk-2")
	}

	assert.True(t, cal.CanReserve(span(t, 10, 14)))
}

func TestReleaseUnknownReference(t *testing.T) {
	cal := NewCalendar("s-1", 0)
	assert.ErrorIs(t, cal.Release("missing", now), ErrRangeNotFound)
}
