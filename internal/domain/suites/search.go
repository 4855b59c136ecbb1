package suites

import (
	"strings"
	"time"
)

// CatalogSort defines a supported ordering.
type CatalogSort string

const (
	SortByPriceAsc     CatalogSort = "price_asc"
	SortByPriceDesc    CatalogSort = "price_desc"
	SortByCapacityAsc  CatalogSort = "capacity_asc"
	SortByCapacityDesc CatalogSort = "capacity_desc"
	SortByRating       CatalogSort = "rating_desc"
	SortByUpdated      CatalogSort = "updated"

	defaultSearchLimit = 24
	MaxSearchLimit     = 60
)

// SearchParams describe catalog filters and paging options.
type SearchParams struct {
	Facility       FacilityID
	States         []SuiteState
	Types          []SuiteType
	LocationPrefix string
	Features       []string
	MinCapacity    int
	PriceMinCents  int64
	PriceMaxCents  int64
	CheckIn        time.Time
	CheckOut       time.Time
	Sort           CatalogSort
	Limit          int
	Offset         int
	OnlyActive     bool
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.LocationPrefix = strings.TrimSpace(strings.ToUpper(normalized.LocationPrefix))
	normalized.Features = normalizeTokens(normalized.Features)
	normalized.Types = normalizeTypes(normalized.Types)
	normalized.CheckIn = normalizeDate(normalized.CheckIn)
	normalized.CheckOut = normalizeDate(normalized.CheckOut)
	if !normalized.CheckIn.IsZero() && !normalized.CheckOut.IsZero() && !normalized.CheckOut.After(normalized.CheckIn) {
		normalized.CheckOut = time.Time{}
	}
	if normalized.MinCapacity < 0 {
		normalized.MinCapacity = 0
	}
	if normalized.PriceMinCents < 0 {
		normalized.PriceMinCents = 0
	}
	if normalized.PriceMaxCents > 0 && normalized.PriceMaxCents < normalized.PriceMinCents {
		normalized.PriceMaxCents = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > MaxSearchLimit {
		normalized.Limit = MaxSearchLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	switch normalized.Sort {
	case SortByPriceAsc, SortByPriceDesc, SortByCapacityAsc, SortByCapacityDesc, SortByRating:
	case SortByUpdated:
	default:
		normalized.Sort = SortByPriceAsc
	}
	return normalized
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func normalizeTypes(values []SuiteType) []SuiteType {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[SuiteType]struct{}, len(values))
	out := make([]SuiteType, 0, len(values))
	for _, value := range values {
		normalized, err := ParseSuiteType(string(value))
		if err != nil {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func normalizeDate(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	y, m, d := value.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SearchResult wraps search hits with meta.
type SearchResult struct {
	Items []*Suite
	Total int
}
