package dto

import (
	"time"

	domainsuites "petlodge/internal/domain/suites"
)

// SuiteCatalog is a paginated collection of bookable suites.
type SuiteCatalog struct {
	Items   []SuiteCard     `json:"items"`
	Filters CatalogFilters  `json:"filters"`
	Meta    CatalogMetadata `json:"meta"`
}

// SuiteCard is a lightweight representation for catalog cards.
type SuiteCard struct {
	ID               string    `json:"id"`
	FacilityID       string    `json:"facility_id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Capacity         int       `json:"capacity"`
	LocationCode     string    `json:"location_code"`
	Features         []string  `json:"features"`
	MinNights        int       `json:"min_nights"`
	MaxNights        int       `json:"max_nights"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	Rating           float64   `json:"rating"`
	AvailableFrom    time.Time `json:"available_from"`
	State            string    `json:"state"`
}

// CatalogFilters echoes back the applied filters.
type CatalogFilters struct {
	Facility       string   `json:"facility"`
	Types          []string `json:"types"`
	LocationPrefix string   `json:"location_prefix"`
	Features       []string `json:"features"`
	MinCapacity    int      `json:"min_capacity"`
	PriceMinCents  int64    `json:"price_min_cents"`
	PriceMaxCents  int64    `json:"price_max_cents"`
}

// CatalogMetadata describes pagination.
type CatalogMetadata struct {
	Total  int    `json:"total"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Sort   string `json:"sort"`
}

// MapCatalog builds a DTO collection based on a search result.
func MapCatalog(result domainsuites.SearchResult, params domainsuites.SearchParams) SuiteCatalog {
	normalized := params.Normalized()
	items := make([]SuiteCard, 0, len(result.Items))
	for _, suite := range result.Items {
		items = append(items, MapSuiteCard(suite))
	}
	types := make([]string, 0, len(normalized.Types))
	for _, t := range normalized.Types {
		types = append(types, string(t))
	}
	return SuiteCatalog{
		Items: items,
		Filters: CatalogFilters{
			Facility:       string(normalized.Facility),
			Types:          types,
			LocationPrefix: normalized.LocationPrefix,
			Features:       append([]string(nil), normalized.Features...),
			MinCapacity:    normalized.MinCapacity,
			PriceMinCents:  normalized.PriceMinCents,
			PriceMaxCents:  normalized.PriceMaxCents,
		},
		Meta: CatalogMetadata{
			Total:  result.Total,
			Count:  len(items),
			Limit:  normalized.Limit,
			Offset: normalized.Offset,
			Sort:   string(normalized.Sort),
		},
	}
}

// MapSuiteCard copies domain data for frontend consumption.
func MapSuiteCard(suite *domainsuites.Suite) SuiteCard {
	if suite == nil {
		return SuiteCard{}
	}
	return SuiteCard{
		ID:               string(suite.ID),
		FacilityID:       string(suite.Facility),
		Name:             suite.Name,
		Type:             string(suite.Type),
		Capacity:         suite.Capacity,
		LocationCode:     suite.LocationCode,
		Features:         append([]string(nil), suite.Features...),
		MinNights:        suite.MinNights,
		MaxNights:        suite.MaxNights,
		NightlyRateCents: suite.NightlyRateCents,
		ThumbnailURL:     suite.ThumbnailURL,
		Rating:           suite.Rating,
		AvailableFrom:    suite.AvailableFrom,
		State:            string(suite.State),
	}
}
