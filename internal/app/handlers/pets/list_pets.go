package pets

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
)

const listPetsKey = "pets.list"

type ListPetsQuery struct {
	OwnerID string
}

func (q ListPetsQuery) Key() string { return listPetsKey }

type ListPetsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListPetsHandler) Handle(ctx context.Context, q ListPetsQuery) (dto.PetCollection, error) {
	ownerID := strings.TrimSpace(q.OwnerID)
	if ownerID == "" {
		return dto.PetCollection{}, errors.New("owner id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PetCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	pets, err := unit.Pets().ListByOwner(execCtx, ownerID)
	if err != nil {
		return dto.PetCollection{}, err
	}

	items := make([]dto.PetDetail, 0, len(pets))
	for _, pet := range pets {
		items = append(items, dto.MapPetDetail(pet))
	}
	if h.Logger != nil {
		h.Logger.Debug("pets listed", "owner_id", ownerID, "count", len(items))
	}
	return dto.PetCollection{Items: items}, nil
}

var _ queries.Handler[ListPetsQuery, dto.PetCollection] = (*ListPetsHandler)(nil)
