package pets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	"petlodge/internal/app/uow"
	domainpets "petlodge/internal/domain/pets"
	"petlodge/internal/infra/storage/s3"
)

const (
	registerPetKey       = "pets.register"
	updatePetKey         = "pets.update"
	uploadVaccinationKey = "pets.vaccinations.upload"
)

type RegisterPetCommand struct {
	OwnerID  string
	Name     string
	Species  string
	Breed    string
	WeightKg float64
	Notes    string
}

func (c RegisterPetCommand) Key() string { return registerPetKey }

type RegisterPetHandler struct {
	Logger *slog.Logger
}

func (h *RegisterPetHandler) Handle(ctx context.Context, cmd RegisterPetCommand) (*dto.PetDetail, error) {
	if strings.TrimSpace(cmd.OwnerID) == "" {
		return nil, errors.New("owner id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	species, err := domainpets.ParseSpecies(cmd.Species)
	if err != nil {
		return nil, err
	}
	pet, err := domainpets.NewPet(domainpets.CreateParams{
		ID:        domainpets.PetID(uuid.NewString()),
		OwnerID:   cmd.OwnerID,
		Name:      cmd.Name,
		Species:   species,
		Breed:     cmd.Breed,
		WeightKg:  cmd.WeightKg,
		Notes:     cmd.Notes,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Pets().Save(ctx, pet); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("pet registered", "pet_id", pet.ID, "owner_id", cmd.OwnerID)
	}

	result := dto.MapPetDetail(pet)
	return &result, nil
}

type UpdatePetCommand struct {
	OwnerID  string
	PetID    string
	Name     string
	Breed    string
	WeightKg float64
	Notes    string
}

func (c UpdatePetCommand) Key() string { return updatePetKey }

type UpdatePetHandler struct {
	Logger *slog.Logger
}

func (h *UpdatePetHandler) Handle(ctx context.Context, cmd UpdatePetCommand) (*dto.PetDetail, error) {
	pet, unit, err := ownedPet(ctx, cmd.OwnerID, cmd.PetID)
	if err != nil {
		return nil, err
	}

	if err := pet.UpdateDetails(cmd.Name, cmd.Breed, cmd.Notes, cmd.WeightKg, time.Now()); err != nil {
		return nil, err
	}
	if err := unit.Pets().Save(ctx, pet); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("pet updated", "pet_id", pet.ID, "owner_id", cmd.OwnerID)
	}

	result := dto.MapPetDetail(pet)
	return &result, nil
}

type UploadVaccinationCommand struct {
	OwnerID     string
	PetID       string
	Kind        string
	ExpiresAt   time.Time
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (c UploadVaccinationCommand) Key() string { return uploadVaccinationKey }

// UploadVaccinationHandler stores the proof document and attaches the
// record to the pet.
type UploadVaccinationHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

func (h *UploadVaccinationHandler) Handle(ctx context.Context, cmd UploadVaccinationCommand) (*dto.PetDetail, error) {
	if h.Uploader == nil {
		return nil, errors.New("document uploader unavailable")
	}
	if cmd.Reader == nil {
		return nil, errors.New("document reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}
	if strings.TrimSpace(cmd.Kind) == "" {
		return nil, errors.New("vaccination kind is required")
	}

	pet, unit, err := ownedPet(ctx, cmd.OwnerID, cmd.PetID)
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload vaccination document: %w", err)
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	pet.AttachVaccination(domainpets.VaccinationRecord{
		Kind:        strings.TrimSpace(cmd.Kind),
		DocumentURL: publicURL,
		ExpiresAt:   cmd.ExpiresAt.UTC(),
	}, now)
	if err := unit.Pets().Save(ctx, pet); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("vaccination attached", "pet_id", pet.ID, "kind", cmd.Kind)
	}

	result := dto.MapPetDetail(pet)
	return &result, nil
}

func ownedPet(ctx context.Context, ownerID, petID string) (*domainpets.Pet, uow.UnitOfWork, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, nil, errors.New("owner id is required")
	}
	if strings.TrimSpace(petID) == "" {
		return nil, nil, errors.New("pet id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	pet, err := unit.Pets().ByID(ctx, domainpets.PetID(petID))
	if err != nil {
		return nil, nil, err
	}
	if pet.OwnerID != ownerID {
		return nil, nil, domainpets.ErrNotOwner
	}
	return pet, unit, nil
}

var (
	_ commands.Handler[RegisterPetCommand, *dto.PetDetail]       = (*RegisterPetHandler)(nil)
	_ commands.Handler[UpdatePetCommand, *dto.PetDetail]         = (*UpdatePetHandler)(nil)
	_ commands.Handler[UploadVaccinationCommand, *dto.PetDetail] = (*UploadVaccinationHandler)(nil)
)
