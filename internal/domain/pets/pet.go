package pets

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNameRequired    = errors.New("pets: name is required")
	ErrInvalidSpecies  = errors.New("pets: unknown species")
	ErrInvalidWeight   = errors.New("pets: weight must be positive")
	ErrNotFound        = errors.New("pets: not found")
	ErrNotOwner        = errors.New("pets: pet belongs to another customer")
	ErrVaccinationsDue = errors.New("pets: vaccination records are expired")
)

type PetID string

type Species string

const (
	SpeciesDog Species = "DOG"
	SpeciesCat Species = "CAT"
)

func ParseSpecies(raw string) (Species, error) {
	switch Species(strings.ToUpper(strings.TrimSpace(raw))) {
	case SpeciesDog:
		return SpeciesDog, nil
	case SpeciesCat:
		return SpeciesCat, nil
	default:
		return "", ErrInvalidSpecies
	}
}

// VaccinationRecord points at an uploaded proof document and carries its
// expiry. A pet with any expired record cannot board.
type VaccinationRecord struct {
	Kind        string
	DocumentURL string
	ExpiresAt   time.Time
}

type Pet struct {
	ID           PetID
	OwnerID      string
	Name         string
	Species      Species
	Breed        string
	WeightKg     float64
	Notes        string
	Vaccinations []VaccinationRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id PetID) (*Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Pet, error)
	Save(ctx context.Context, pet *Pet) error
}

type CreateParams struct {
	ID        PetID
	OwnerID   string
	Name      string
	Species   Species
	Breed     string
	WeightKg  float64
	Notes     string
	CreatedAt time.Time
}

func NewPet(params CreateParams) (*Pet, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.OwnerID == "" {
		return nil, errors.New("pets: owner id required")
	}
	if _, err := ParseSpecies(string(params.Species)); err != nil {
		return nil, err
	}
	if params.WeightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	now := params.CreatedAt.UTC()
	return &Pet{
		ID:        params.ID,
		OwnerID:   params.OwnerID,
		Name:      name,
		Species:   params.Species,
		Breed:     strings.TrimSpace(params.Breed),
		WeightKg:  params.WeightKg,
		Notes:     strings.TrimSpace(params.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Pet) AttachVaccination(record VaccinationRecord, now time.Time) {
	p.Vaccinations = append(p.Vaccinations, record)
	p.UpdatedAt = now.UTC()
}

// FitForBoarding checks that every vaccination record outlives the stay.
func (p *Pet) FitForBoarding(checkOut time.Time) error {
	for _, rec := range p.Vaccinations {
		if !rec.ExpiresAt.IsZero() && rec.ExpiresAt.Before(checkOut) {
			return ErrVaccinationsDue
		}
	}
	return nil
}

func (p *Pet) UpdateDetails(name, breed, notes string, weightKg float64, now time.Time) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if weightKg <= 0 {
		return ErrInvalidWeight
	}
	p.Name = trimmed
	p.Breed = strings.TrimSpace(breed)
	p.Notes = strings.TrimSpace(notes)
	p.WeightKg = weightKg
	p.UpdatedAt = now.UTC()
	return nil
}
