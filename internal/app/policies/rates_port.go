package policies

import (
	"context"

	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

// RatesPort asks the external rate model for a recommended nightly rate, in
// cents, for a suite over a stay window.
type RatesPort interface {
	SuggestNightlyRate(ctx context.Context, suite *domainsuites.Suite, dr domainrange.DateRange) (int64, error)
}
