package suites

import (
	"time"
)

type SuiteCreatedEvent struct {
	SuiteID    SuiteID
	FacilityID FacilityID
	At         time.Time
}

func (e SuiteCreatedEvent) EventName() string     { return "suite.created" }
func (e SuiteCreatedEvent) AggregateID() string   { return string(e.SuiteID) }
func (e SuiteCreatedEvent) OccurredAt() time.Time { return e.At }

type SuiteActivatedEvent struct {
	SuiteID    SuiteID
	FacilityID FacilityID
	At         time.Time
}

func (e SuiteActivatedEvent) EventName() string     { return "suite.activated" }
func (e SuiteActivatedEvent) AggregateID() string   { return string(e.SuiteID) }
func (e SuiteActivatedEvent) OccurredAt() time.Time { return e.At }

type SuiteSuspendedEvent struct {
	SuiteID SuiteID
	Reason  string
	At      time.Time
}

func (e SuiteSuspendedEvent) EventName() string     { return "suite.suspended" }
func (e SuiteSuspendedEvent) AggregateID() string   { return string(e.SuiteID) }
func (e SuiteSuspendedEvent) OccurredAt() time.Time { return e.At }

type SuiteUpdatedEvent struct {
	SuiteID SuiteID
	At      time.Time
}

func (e SuiteUpdatedEvent) EventName() string     { return "suite.updated" }
func (e SuiteUpdatedEvent) AggregateID() string   { return string(e.SuiteID) }
func (e SuiteUpdatedEvent) OccurredAt() time.Time { return e.At }
