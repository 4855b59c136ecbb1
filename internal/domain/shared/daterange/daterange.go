package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: check-out must be after check-in")
)

// DateRange represents a half-open stay interval [checkIn, checkOut).
// The end instant is excluded, so a check-out and a same-day check-in on the
// same suite never conflict.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts billable nights: ceil of the stay duration in days, never
// below 1, so a same-day daycare stay still bills as one night.
func (dr DateRange) Nights() int {
	d := dr.CheckOut.Sub(dr.CheckIn)
	nights := int((d + 24*time.Hour - 1) / (24 * time.Hour))
	if nights < 1 {
		nights = 1
	}
	return nights
}

// Hours is the stay duration rounded up to whole hours, used for daycare
// scheduling.
func (dr DateRange) Hours() int {
	d := dr.CheckOut.Sub(dr.CheckIn)
	return int((d + time.Hour - 1) / time.Hour)
}

// SameCalendarDay reports whether check-in and check-out fall on the same
// UTC calendar day (a daycare stay).
func (dr DateRange) SameCalendarDay() bool {
	y1, m1, d1 := dr.CheckIn.UTC().Date()
	y2, m2, d2 := dr.CheckOut.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Overlaps reports a conflict between two half-open ranges. The single
// inequality pair covers partial overlap at either edge and containment in
// either direction; touching endpoints do not overlap.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return (t.Equal(dr.CheckIn) || t.After(dr.CheckIn)) && t.Before(dr.CheckOut)
}
