package suites

import (
	"context"
	"time"

	"petlodge/internal/app/dto"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainsuites "petlodge/internal/domain/suites"
)

const searchCatalogKey = "suites.catalog"

// SearchCatalogQuery describes request filters.
type SearchCatalogQuery struct {
	Facility       string
	Types          []string
	LocationPrefix string
	Features       []string
	MinCapacity    int
	PriceMinCents  int64
	PriceMaxCents  int64
	CheckIn        time.Time
	CheckOut       time.Time
	Sort           string
	Limit          int
	Offset         int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

// SearchCatalogHandler loads suites with applied filters.
type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.SuiteCatalog, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.SuiteCatalog{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.SuiteCatalog{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	types := make([]domainsuites.SuiteType, 0, len(q.Types))
	for _, t := range q.Types {
		types = append(types, domainsuites.SuiteType(t))
	}

	searchParams := domainsuites.SearchParams{
		Facility:       domainsuites.FacilityID(q.Facility),
		Types:          types,
		LocationPrefix: q.LocationPrefix,
		Features:       append([]string(nil), q.Features...),
		MinCapacity:    q.MinCapacity,
		PriceMinCents:  q.PriceMinCents,
		PriceMaxCents:  q.PriceMaxCents,
		CheckIn:        q.CheckIn,
		CheckOut:       q.CheckOut,
		Sort:           domainsuites.CatalogSort(q.Sort),
		Limit:          q.Limit,
		Offset:         q.Offset,
		OnlyActive:     true,
	}

	result, err := unit.Suites().Search(ctx, searchParams)
	if err != nil {
		return dto.SuiteCatalog{}, err
	}

	return dto.MapCatalog(result, searchParams), nil
}

var _ queries.Handler[SearchCatalogQuery, dto.SuiteCatalog] = (*SearchCatalogHandler)(nil)
