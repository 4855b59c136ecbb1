package suites

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainsuites "petlodge/internal/domain/suites"
)

const (
	listFacilitySuitesKey = "facility.suites.list"
	getFacilitySuiteKey   = "facility.suites.get"
)

var ErrSuiteNotOwned = errors.New("suite not found for facility")

type ListFacilitySuitesQuery struct {
	FacilityID string
	Status     string
	Limit      int
	Offset     int
}

func (q ListFacilitySuitesQuery) Key() string { return listFacilitySuitesKey }

type ListFacilitySuitesHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListFacilitySuitesHandler) Handle(ctx context.Context, q ListFacilitySuitesQuery) (dto.FacilitySuiteCatalog, error) {
	if strings.TrimSpace(q.FacilityID) == "" {
		return dto.FacilitySuiteCatalog{}, errors.New("facility id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.FacilitySuiteCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	params := domainsuites.SearchParams{
		Facility:   domainsuites.FacilityID(q.FacilityID),
		Limit:      limit,
		Offset:     offset,
		States:     statesForStatus(q.Status),
		Sort:       domainsuites.SortByUpdated,
		OnlyActive: false,
	}

	result, err := unit.Suites().Search(execCtx, params)
	if err != nil {
		return dto.FacilitySuiteCatalog{}, err
	}

	items := make([]dto.FacilitySuiteSummary, 0, len(result.Items))
	for _, suite := range result.Items {
		items = append(items, dto.MapFacilitySuiteSummary(suite))
	}
	if h.Logger != nil {
		h.Logger.Debug("facility suites queried", "facility_id", q.FacilityID, "count", len(items))
	}

	return dto.FacilitySuiteCatalog{
		Items: items,
		Meta: dto.FacilitySuiteCatalogMeta{
			Total:  result.Total,
			Limit:  limit,
			Offset: offset,
		},
	}, nil
}

type GetFacilitySuiteQuery struct {
	FacilityID string
	SuiteID    string
}

func (q GetFacilitySuiteQuery) Key() string { return getFacilitySuiteKey }

type GetFacilitySuiteHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *GetFacilitySuiteHandler) Handle(ctx context.Context, q GetFacilitySuiteQuery) (dto.FacilitySuiteDetail, error) {
	if strings.TrimSpace(q.FacilityID) == "" {
		return dto.FacilitySuiteDetail{}, errors.New("facility id is required")
	}
	if strings.TrimSpace(q.SuiteID) == "" {
		return dto.FacilitySuiteDetail{}, errors.New("suite id is required")
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.FacilitySuiteDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	suite, err := unit.Suites().ByID(execCtx, domainsuites.SuiteID(q.SuiteID))
	if err != nil {
		return dto.FacilitySuiteDetail{}, err
	}
	if suite.Facility != domainsuites.FacilityID(q.FacilityID) {
		return dto.FacilitySuiteDetail{}, ErrSuiteNotOwned
	}

	if h.Logger != nil {
		h.Logger.Debug("facility suite loaded", "suite_id", suite.ID, "facility_id", q.FacilityID)
	}

	return dto.MapFacilitySuiteDetail(suite), nil
}

func statesForStatus(raw string) []domainsuites.SuiteState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft":
		return []domainsuites.SuiteState{domainsuites.SuiteDraft}
	case "active":
		return []domainsuites.SuiteState{domainsuites.SuiteActive}
	case "suspended":
		return []domainsuites.SuiteState{domainsuites.SuiteSuspended}
	default:
		return nil
	}
}

var _ queries.Handler[ListFacilitySuitesQuery, dto.FacilitySuiteCatalog] = (*ListFacilitySuitesHandler)(nil)
var _ queries.Handler[GetFacilitySuiteQuery, dto.FacilitySuiteDetail] = (*GetFacilitySuiteHandler)(nil)
