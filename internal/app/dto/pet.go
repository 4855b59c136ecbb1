package dto

import (
	"time"

	domainpets "petlodge/internal/domain/pets"
)

type VaccinationDTO struct {
	Kind        string    `json:"kind"`
	DocumentURL string    `json:"document_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type PetDetail struct {
	ID           string           `json:"id"`
	OwnerID      string           `json:"owner_id"`
	Name         string           `json:"name"`
	Species      string           `json:"species"`
	Breed        string           `json:"breed"`
	WeightKg     float64          `json:"weight_kg"`
	Notes        string           `json:"notes,omitempty"`
	Vaccinations []VaccinationDTO `json:"vaccinations"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type PetCollection struct {
	Items []PetDetail `json:"items"`
}

func MapPetDetail(pet *domainpets.Pet) PetDetail {
	if pet == nil {
		return PetDetail{}
	}
	vaccinations := make([]VaccinationDTO, 0, len(pet.Vaccinations))
	for _, record := range pet.Vaccinations {
		vaccinations = append(vaccinations, VaccinationDTO{
			Kind:        record.Kind,
			DocumentURL: record.DocumentURL,
			ExpiresAt:   record.ExpiresAt,
		})
	}
	return PetDetail{
		ID:           string(pet.ID),
		OwnerID:      pet.OwnerID,
		Name:         pet.Name,
		Species:      string(pet.Species),
		Breed:        pet.Breed,
		WeightKg:     pet.WeightKg,
		Notes:        pet.Notes,
		Vaccinations: vaccinations,
		CreatedAt:    pet.CreatedAt,
		UpdatedAt:    pet.UpdatedAt,
	}
}
