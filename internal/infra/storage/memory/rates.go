package memory

import (
	"context"

	"petlodge/internal/app/policies"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

// RatesEngine is a deterministic rate model used for local demos. It prices
// off the suite type and capacity so suggestions stay stable across runs.
type RatesEngine struct {
	BaseCents   map[domainsuites.SuiteType]int64
	PerPetCents int64
}

// NewRatesEngine returns an engine with sane defaults.
func NewRatesEngine() *RatesEngine {
	return &RatesEngine{
		BaseCents: map[domainsuites.SuiteType]int64{
			domainsuites.TypeKennel:  4500, // $45.00
			domainsuites.TypeSuite:   8500, // $85.00
			domainsuites.TypeCattery: 3500, // $35.00
		},
		PerPetCents: 1000,
	}
}

func (e *RatesEngine) SuggestNightlyRate(ctx context.Context, suite *domainsuites.Suite, dr domainrange.DateRange) (int64, error) {
	base := int64(5000)
	if suite != nil {
		if v, ok := e.BaseCents[suite.Type]; ok {
			base = v
		}
		if suite.Capacity > 1 {
			base += int64(suite.Capacity-1) * e.PerPetCents
		}
	}
	return base, nil
}

var _ policies.RatesPort = (*RatesEngine)(nil)
