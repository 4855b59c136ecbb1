package availability

import (
	"time"

	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/suites"
)

type CalendarBlocked struct {
	SuiteID string
	Range   daterange.DateRange
	Reason  BlockReason
	At      time.Time
}

func (e CalendarBlocked) EventName() string     { return "calendar.blocked" }
func (e CalendarBlocked) AggregateID() string   { return e.SuiteID }
func (e CalendarBlocked) OccurredAt() time.Time { return e.At }

type CalendarReleased struct {
	SuiteID string
	Range   daterange.DateRange
	Reason  BlockReason
	At      time.Time
}

func (e CalendarReleased) EventName() string     { return "calendar.released" }
func (e CalendarReleased) AggregateID() string   { return e.SuiteID }
func (e CalendarReleased) OccurredAt() time.Time { return e.At }

type CalendarOverbookingPrevented struct {
	SuiteID string
	Range   daterange.DateRange
	At      time.Time
}

func (e CalendarOverbookingPrevented) EventName() string     { return "calendar.overbooking_prevented" }
func (e CalendarOverbookingPrevented) AggregateID() string   { return e.SuiteID }
func (e CalendarOverbookingPrevented) OccurredAt() time.Time { return e.At }

func CalendarBlockedEvent(id suites.SuiteID, r daterange.DateRange, reason BlockReason, at time.Time) CalendarBlocked {
	return CalendarBlocked{SuiteID: string(id), Range: r, Reason: reason, At: at}
}

func CalendarReleasedEvent(id suites.SuiteID, r daterange.DateRange, reason BlockReason, at time.Time) CalendarReleased {
	return CalendarReleased{SuiteID: string(id), Range: r, Reason: reason, At: at}
}

func CalendarOverbookingPreventedEvent(id suites.SuiteID, r daterange.DateRange, at time.Time) CalendarOverbookingPrevented {
	return CalendarOverbookingPrevented{SuiteID: string(id), Range: r, At: at}
}
