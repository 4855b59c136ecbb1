package suites

import (
	"context"
	"errors"
	"strings"
	"time"

	"petlodge/internal/domain/shared/events"
)

var (
	ErrCapacity         = errors.New("suites: capacity must be at least 1")
	ErrNightsRange      = errors.New("suites: min nights must be <= max nights")
	ErrInvalidState     = errors.New("suites: invalid state transition")
	ErrLocationRequired = errors.New("suites: location code must be provided when activating")
	ErrNameRequired     = errors.New("suites: name is required")
	ErrNightlyRate      = errors.New("suites: nightly rate must be non-negative")
	ErrAdvanceWindow    = errors.New("suites: advance-booking window must be non-negative")
	ErrInvalidType      = errors.New("suites: unknown suite type")
	ErrNotFound         = errors.New("suites: not found")
)

type SuiteID string
type FacilityID string

type SuiteState string

const (
	SuiteDraft     SuiteState = "DRAFT"
	SuiteActive    SuiteState = "ACTIVE"
	SuiteSuspended SuiteState = "SUSPENDED"
)

type SuiteType string

const (
	TypeKennel  SuiteType = "KENNEL"
	TypeSuite   SuiteType = "SUITE"
	TypeCattery SuiteType = "CATTERY"
)

// ParseSuiteType normalizes user input into a known suite type.
func ParseSuiteType(raw string) (SuiteType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(TypeKennel), "":
		return TypeKennel, nil
	case string(TypeSuite):
		return TypeSuite, nil
	case string(TypeCattery):
		return TypeCattery, nil
	default:
		return "", ErrInvalidType
	}
}

// Suite is a physical boarding unit. LocationCode is a building/row prefix
// (e.g. "B1-R2-07") used for nearby clustering during assignment.
type Suite struct {
	ID               SuiteID
	Facility         FacilityID
	Name             string
	Description      string
	Type             SuiteType
	Capacity         int
	LocationCode     string
	Features         []string
	MinNights        int
	MaxNights        int
	MaxAdvanceDays   int
	NightlyRateCents int64
	State            SuiteState
	ThumbnailURL     string
	Rating           float64
	Photos           []string
	AvailableFrom    time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	events.EventRecorder
}

type SuiteRepository interface {
	ByID(ctx context.Context, id SuiteID) (*Suite, error)
	Save(ctx context.Context, suite *Suite) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateSuiteParams struct {
	ID               SuiteID
	Facility         FacilityID
	Name             string
	Description      string
	Type             SuiteType
	Capacity         int
	LocationCode     string
	Features         []string
	MinNights        int
	MaxNights        int
	MaxAdvanceDays   int
	NightlyRateCents int64
	ThumbnailURL     string
	Rating           float64
	AvailableFrom    time.Time
	Now              time.Time
	Photos           []string
}

func NewSuite(params CreateSuiteParams) (*Suite, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("suites: id is required")
	}
	if strings.TrimSpace(string(params.Facility)) == "" {
		return nil, errors.New("suites: facility is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	suiteType, err := ParseSuiteType(string(params.Type))
	if err != nil {
		return nil, err
	}
	if params.Capacity < 1 {
		return nil, ErrCapacity
	}
	if params.MaxNights > 0 && params.MinNights > params.MaxNights {
		return nil, ErrNightsRange
	}
	if params.MaxAdvanceDays < 0 {
		return nil, ErrAdvanceWindow
	}
	if params.NightlyRateCents < 0 {
		return nil, ErrNightlyRate
	}
	availableFrom := params.AvailableFrom
	if availableFrom.IsZero() {
		availableFrom = params.Now
	}

	suite := &Suite{
		ID:               params.ID,
		Facility:         params.Facility,
		Name:             strings.TrimSpace(params.Name),
		Description:      strings.TrimSpace(params.Description),
		Type:             suiteType,
		Capacity:         params.Capacity,
		LocationCode:     strings.TrimSpace(params.LocationCode),
		Features:         append([]string(nil), params.Features...),
		MinNights:        params.MinNights,
		MaxNights:        params.MaxNights,
		MaxAdvanceDays:   params.MaxAdvanceDays,
		NightlyRateCents: params.NightlyRateCents,
		State:            SuiteDraft,
		ThumbnailURL:     strings.TrimSpace(params.ThumbnailURL),
		Rating:           params.Rating,
		Photos:           append([]string(nil), params.Photos...),
		AvailableFrom:    availableFrom.UTC(),
		CreatedAt:        params.Now.UTC(),
		UpdatedAt:        params.Now.UTC(),
	}

	suite.Record(SuiteCreatedEvent{SuiteID: suite.ID, FacilityID: suite.Facility, At: suite.CreatedAt})
	return suite, nil
}

func (s *Suite) Activate(now time.Time) error {
	if s.State == SuiteActive {
		return nil
	}
	if strings.TrimSpace(s.LocationCode) == "" {
		return ErrLocationRequired
	}
	if s.Capacity < 1 {
		return ErrCapacity
	}
	if s.MaxNights > 0 && s.MinNights > s.MaxNights {
		return ErrNightsRange
	}
	s.State = SuiteActive
	s.UpdatedAt = now.UTC()
	s.Record(SuiteActivatedEvent{SuiteID: s.ID, FacilityID: s.Facility, At: s.UpdatedAt})
	return nil
}

func (s *Suite) Suspend(now time.Time, reason string) error {
	if s.State != SuiteActive {
		return ErrInvalidState
	}
	s.State = SuiteSuspended
	s.UpdatedAt = now.UTC()
	s.Record(SuiteSuspendedEvent{SuiteID: s.ID, Reason: reason, At: s.UpdatedAt})
	return nil
}

func (s *Suite) UpdateRating(average float64, now time.Time) {
	s.Rating = average
	s.UpdatedAt = now.UTC()
}

func (s *Suite) AddPhoto(url string, now time.Time) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("suites: photo url required")
	}
	s.Photos = append(s.Photos, url)
	if s.ThumbnailURL == "" {
		s.ThumbnailURL = url
	}
	s.UpdatedAt = now.UTC()
	s.Record(SuiteUpdatedEvent{SuiteID: s.ID, At: s.UpdatedAt})
	return nil
}

type UpdateSuiteParams struct {
	Name             string
	Description      string
	Type             SuiteType
	Capacity         int
	LocationCode     string
	Features         []string
	MinNights        int
	MaxNights        int
	MaxAdvanceDays   int
	NightlyRateCents int64
	ThumbnailURL     string
	AvailableFrom    time.Time
	Photos           []string
	Now              time.Time
}

func (s *Suite) UpdateAttributes(params UpdateSuiteParams) error {
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	suiteType, err := ParseSuiteType(string(params.Type))
	if err != nil {
		return err
	}
	if params.Capacity < 1 {
		return ErrCapacity
	}
	if params.MaxNights > 0 && params.MinNights > params.MaxNights {
		return ErrNightsRange
	}
	if params.MaxAdvanceDays < 0 {
		return ErrAdvanceWindow
	}
	if params.NightlyRateCents < 0 {
		return ErrNightlyRate
	}

	s.Name = strings.TrimSpace(params.Name)
	s.Description = strings.TrimSpace(params.Description)
	s.Type = suiteType
	s.Capacity = params.Capacity
	s.LocationCode = strings.TrimSpace(params.LocationCode)
	s.Features = append([]string(nil), params.Features...)
	s.MinNights = params.MinNights
	s.MaxNights = params.MaxNights
	s.MaxAdvanceDays = params.MaxAdvanceDays
	s.NightlyRateCents = params.NightlyRateCents
	s.ThumbnailURL = strings.TrimSpace(params.ThumbnailURL)
	if !params.AvailableFrom.IsZero() {
		s.AvailableFrom = params.AvailableFrom.UTC()
	}
	s.Photos = append([]string(nil), params.Photos...)
	s.UpdatedAt = now
	s.Record(SuiteUpdatedEvent{SuiteID: s.ID, At: now})
	return nil
}
