package availability

import (
	"context"
	"errors"
	"time"

	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/events"
	"petlodge/internal/domain/suites"
)

var (
	ErrOverlappingRange = errors.New("availability: range overlaps with an existing block")
	ErrRangeNotFound    = errors.New("availability: range not found")
	ErrCalendarNotFound = errors.New("availability: calendar not found")
	ErrConcurrentUpdate = errors.New("availability: calendar modified concurrently")
)

type BlockReason string

const (
	ReasonBooking     BlockReason = "BOOKING"
	ReasonMaintenance BlockReason = "MAINTENANCE"
	ReasonSanitation  BlockReason = "SANITATION_BUFFER"
)

type Block struct {
	Range     daterange.DateRange
	Reason    BlockReason
	Reference string
	CreatedAt time.Time
}

// SuiteCalendar holds the committed blocks of one suite. Version is bumped
// on every save; repositories reject a stale save so that the re-check in
// Reserve and the write land in one atomic unit.
type SuiteCalendar struct {
	SuiteID            suites.SuiteID
	Blocks             []Block
	Version            int64
	SanitationGapHours int
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id suites.SuiteID) (*SuiteCalendar, error)
	Save(ctx context.Context, calendar *SuiteCalendar) error
}

func NewCalendar(id suites.SuiteID, sanitationGapHours int) *SuiteCalendar {
	return &SuiteCalendar{SuiteID: id, SanitationGapHours: sanitationGapHours}
}

// Bookings exposes the calendar blocks as the checker's input shape.
func (c *SuiteCalendar) Bookings() []ExistingBooking {
	out := make([]ExistingBooking, 0, len(c.Blocks))
	for _, block := range c.Blocks {
		out = append(out, ExistingBooking{SuiteID: c.SuiteID, Range: block.Range})
	}
	return out
}

func (c *SuiteCalendar) CanReserve(r daterange.DateRange) bool {
	return IsAvailable(r, c.Bookings())
}

// Reserve re-checks availability and appends a booking block. The re-check
// makes a stale IsAvailable read harmless as long as the caller saves the
// calendar in the same transaction.
func (c *SuiteCalendar) Reserve(r daterange.DateRange, bookingID string, now time.Time) error {
	if !c.CanReserve(r) {
		c.Record(CalendarOverbookingPreventedEvent(c.SuiteID, r, now))
		return ErrOverlappingRange
	}
	c.appendBlock(Block{Range: r, Reason: ReasonBooking, Reference: bookingID, CreatedAt: now.UTC()})

	if c.SanitationGapHours > 0 {
		gap := time.Hour * time.Duration(c.SanitationGapHours)
		after := daterange.DateRange{CheckIn: r.CheckOut, CheckOut: r.CheckOut.Add(gap)}
		if after.CheckOut.After(after.CheckIn) && c.CanReserve(after) {
			c.appendBlock(Block{Range: after, Reason: ReasonSanitation, Reference: bookingID + "-sanitation", CreatedAt: now.UTC()})
		}
	}

	c.Record(CalendarBlockedEvent(c.SuiteID, r, ReasonBooking, now))
	return nil
}

func (c *SuiteCalendar) BlockRange(r daterange.DateRange, reason BlockReason, reference string, now time.Time) error {
	if reason == "" {
		reason = ReasonMaintenance
	}
	if !c.CanReserve(r) {
		return ErrOverlappingRange
	}
	c.appendBlock(Block{Range: r, Reason: reason, Reference: reference, CreatedAt: now.UTC()})
	c.Record(CalendarBlockedEvent(c.SuiteID, r, reason, now))
	return nil
}

// Release removes every block created for the given reference, booking and
// sanitation buffer alike.
func (c *SuiteCalendar) Release(reference string, now time.Time) error {
	kept := c.Blocks[:0]
	released := make([]Block, 0, 2)
	for _, block := range c.Blocks {
		if block.Reference == reference || block.Reference == reference+"-sanitation" {
			released = append(released, block)
			continue
		}
		kept = append(kept, block)
	}
	if len(released) == 0 {
		return ErrRangeNotFound
	}
	c.Blocks = kept
	for _, block := range released {
		c.Record(CalendarReleasedEvent(c.SuiteID, block.Range, block.Reason, now))
	}
	return nil
}

func (c *SuiteCalendar) appendBlock(block Block) {
	c.Blocks = append(c.Blocks, block)
}
