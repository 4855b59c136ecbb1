package suites

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	"petlodge/internal/app/uow"
	domainsuites "petlodge/internal/domain/suites"
)

const (
	createSuiteKey   = "facility.suites.create"
	updateSuiteKey   = "facility.suites.update"
	activateSuiteKey = "facility.suites.activate"
	suspendSuiteKey  = "facility.suites.suspend"
)

type SuitePayload struct {
	Name             string
	Description      string
	Type             string
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
}

type CreateSuiteCommand struct {
	FacilityID string
	Payload    SuitePayload
}

func (c CreateSuiteCommand) Key() string { return createSuiteKey }

type CreateSuiteHandler struct {
	Logger *slog.Logger
}

func (h *CreateSuiteHandler) Handle(ctx context.Context, cmd CreateSuiteCommand) (*dto.FacilitySuiteDetail, error) {
	if strings.TrimSpace(cmd.FacilityID) == "" {
		return nil, errors.New("facility id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	suiteID := domainsuites.SuiteID(uuid.NewString())
	suite, err := domainsuites.NewSuite(domainsuites.CreateSuiteParams{
		ID:               suiteID,
		Facility:         domainsuites.FacilityID(cmd.FacilityID),
		Name:             cmd.Payload.Name,
		Description:      cmd.Payload.Description,
		Type:             domainsuites.SuiteType(cmd.Payload.Type),
		Capacity:         cmd.Payload.Capacity,
		LocationCode:     cmd.Payload.LocationCode,
		Features:         cmd.Payload.Features,
		MinNights:        cmd.Payload.MinNights,
		MaxNights:        cmd.Payload.MaxNights,
		MaxAdvanceDays:   cmd.Payload.MaxAdvanceDays,
		NightlyRateCents: cmd.Payload.NightlyRateCents,
		ThumbnailURL:     cmd.Payload.ThumbnailURL,
		AvailableFrom:    cmd.Payload.AvailableFrom,
		Photos:           cmd.Payload.Photos,
		Now:              time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Suites().Save(ctx, suite); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("suite created", "suite_id", suite.ID, "facility_id", cmd.FacilityID)
	}

	result := dto.MapFacilitySuiteDetail(suite)
	return &result, nil
}

type UpdateSuiteCommand struct {
	FacilityID string
	SuiteID    string
	Payload    SuitePayload
}

func (c UpdateSuiteCommand) Key() string { return updateSuiteKey }

type UpdateSuiteHandler struct {
	Logger *slog.Logger
}

func (h *UpdateSuiteHandler) Handle(ctx context.Context, cmd UpdateSuiteCommand) (*dto.FacilitySuiteDetail, error) {
	suite, unit, err := ownedSuite(ctx, cmd.FacilityID, cmd.SuiteID)
	if err != nil {
		return nil, err
	}

	if err := suite.UpdateAttributes(domainsuites.UpdateSuiteParams{
		Name:             cmd.Payload.Name,
		Description:      cmd.Payload.Description,
		Type:             domainsuites.SuiteType(cmd.Payload.Type),
		Capacity:         cmd.Payload.Capacity,
		LocationCode:     cmd.Payload.LocationCode,
		Features:         cmd.Payload.Features,
		MinNights:        cmd.Payload.MinNights,
		MaxNights:        cmd.Payload.MaxNights,
		MaxAdvanceDays:   cmd.Payload.MaxAdvanceDays,
		NightlyRateCents: cmd.Payload.NightlyRateCents,
		ThumbnailURL:     cmd.Payload.ThumbnailURL,
		AvailableFrom:    cmd.Payload.AvailableFrom,
		Photos:           cmd.Payload.Photos,
		Now:              time.Now(),
	}); err != nil {
		return nil, err
	}

	if err := unit.Suites().Save(ctx, suite); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("suite updated", "suite_id", suite.ID, "facility_id", cmd.FacilityID)
	}

	result := dto.MapFacilitySuiteDetail(suite)
	return &result, nil
}

type ActivateSuiteCommand struct {
	FacilityID string
	SuiteID    string
}

func (c ActivateSuiteCommand) Key() string { return activateSuiteKey }

type ActivateSuiteHandler struct {
	Logger *slog.Logger
}

func (h *ActivateSuiteHandler) Handle(ctx context.Context, cmd ActivateSuiteCommand) (*dto.FacilitySuiteDetail, error) {
	suite, unit, err := ownedSuite(ctx, cmd.FacilityID, cmd.SuiteID)
	if err != nil {
		return nil, err
	}

	if err := suite.Activate(time.Now()); err != nil {
		return nil, err
	}
	if err := unit.Suites().Save(ctx, suite); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("suite activated", "suite_id", suite.ID, "facility_id", cmd.FacilityID)
	}

	result := dto.MapFacilitySuiteDetail(suite)
	return &result, nil
}

type SuspendSuiteCommand struct {
	FacilityID string
	SuiteID    string
	Reason     string
}

func (c SuspendSuiteCommand) Key() string { return suspendSuiteKey }

type SuspendSuiteHandler struct {
	Logger *slog.Logger
}

func (h *SuspendSuiteHandler) Handle(ctx context.Context, cmd SuspendSuiteCommand) (*dto.FacilitySuiteDetail, error) {
	suite, unit, err := ownedSuite(ctx, cmd.FacilityID, cmd.SuiteID)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = "facility-request"
	}
	if err := suite.Suspend(time.Now(), reason); err != nil {
		return nil, err
	}
	if err := unit.Suites().Save(ctx, suite); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("suite suspended", "suite_id", suite.ID, "facility_id", cmd.FacilityID, "reason", reason)
	}

	result := dto.MapFacilitySuiteDetail(suite)
	return &result, nil
}

func ownedSuite(ctx context.Context, facilityID, suiteID string) (*domainsuites.Suite, uow.UnitOfWork, error) {
	if strings.TrimSpace(facilityID) == "" {
		return nil, nil, errors.New("facility id is required")
	}
	if strings.TrimSpace(suiteID) == "" {
		return nil, nil, errors.New("suite id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	suite, err := unit.Suites().ByID(ctx, domainsuites.SuiteID(suiteID))
	if err != nil {
		return nil, nil, err
	}
	if suite.Facility != domainsuites.FacilityID(facilityID) {
		return nil, nil, ErrSuiteNotOwned
	}
	return suite, unit, nil
}

var (
	_ commands.Handler[CreateSuiteCommand, *dto.FacilitySuiteDetail]   = (*CreateSuiteHandler)(nil)
	_ commands.Handler[UpdateSuiteCommand, *dto.FacilitySuiteDetail]   = (*UpdateSuiteHandler)(nil)
	_ commands.Handler[ActivateSuiteCommand, *dto.FacilitySuiteDetail] = (*ActivateSuiteHandler)(nil)
	_ commands.Handler[SuspendSuiteCommand, *dto.FacilitySuiteDetail]  = (*SuspendSuiteHandler)(nil)
)
