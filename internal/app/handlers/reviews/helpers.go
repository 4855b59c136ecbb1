package reviews

import (
	"context"
	"time"

	"petlodge/internal/app/uow"
	domainsuites "petlodge/internal/domain/suites"
)

func recalculateSuiteRating(ctx context.Context, unit uow.UnitOfWork, suiteID domainsuites.SuiteID, now time.Time) error {
	reviews, err := unit.Reviews().ListBySuite(ctx, suiteID, 0, 0)
	if err != nil {
		return err
	}
	var total int
	for _, review := range reviews {
		total += review.Rating
	}
	average := 0.0
	if len(reviews) > 0 {
		average = float64(total) / float64(len(reviews))
	}

	suite, err := unit.Suites().ByID(ctx, suiteID)
	if err != nil {
		return err
	}
	suite.UpdateRating(average, now)
	return unit.Suites().Save(ctx, suite)
}
