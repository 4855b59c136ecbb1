package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(day(10, 12), day(10, 12))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(12, 12), day(10, 12))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	dr, err := New(time.Date(2026, 3, 10, 13, 0, 0, 0, loc), day(12, 11))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, dr.CheckIn.Location())
	assert.Equal(t, day(10, 12), dr.CheckIn)
}

func TestNightsRoundsUpPartialDays(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		expected int
	}{
		{"exactly one day", day(10, 12), day(11, 12), 1},
		{"a few hours over", day(10, 12), day(11, 15), 2},
		{"exactly two days", day(10, 12), day(12, 12), 2},
		{"daycare bills one night minimum", day(10, 8), day(10, 18), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dr, err := New(tc.in, tc.out)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dr.Nights())
		})
	}
}

func TestHoursRoundsUp(t *testing.T) {
	dr, err := New(day(10, 8), day(10, 18).Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 11, dr.Hours())
}

func TestSameCalendarDay(t *testing.T) {
	dr, err := New(day(10, 8), day(10, 18))
	require.NoError(t, err)
	assert.True(t, dr.SameCalendarDay())

	dr, err = New(day(10, 23), day(11, 1))
	require.NoError(t, err)
	assert.False(t, dr.SameCalendarDay())
}

func TestOverlapsHalfOpen(t *testing.T) {
	base, err := New(day(10, 12), day(14, 11))
	require.NoError(t, err)

	tests := []struct {
		name     string
		in, out  time.Time
		overlaps bool
	}{
		{"disjoint before", day(5, 12), day(8, 11), false},
		{"disjoint after", day(20, 12), day(22, 11), false},
		{"partial left edge", day(8, 12), day(11, 11), true},
		{"partial right edge", day(13, 12), day(16, 11), true},
		{"contained", day(11, 12), day(13, 11), true},
		{"containing", day(8, 12), day(16, 11), true},
		{"checkout meets checkin", day(8, 12), day(10, 12), false},
		{"checkin meets checkout", day(14, 11), day(16, 11), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			other, err := New(tc.in, tc.out)
			require.NoError(t, err)
			assert.Equal(t, tc.overlaps, base.Overlaps(other))
			assert.Equal(t, tc.overlaps, other.Overlaps(base))
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr, err := New(day(10, 12), day(14, 11))
	require.NoError(t, err)
	assert.True(t, dr.ContainsDate(day(10, 12)))
	assert.True(t, dr.ContainsDate(day(12, 0)))
	assert.False(t, dr.ContainsDate(day(14, 11)))
	assert.False(t, dr.ContainsDate(day(9, 12)))
}
