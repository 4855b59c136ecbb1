package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"petlodge/internal/app/dto"
	handlersupport "petlodge/internal/app/handlers/support"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/uow"
	domainsuites "petlodge/internal/domain/suites"
)

const listSuiteReviewsKey = "reviews.suite.list"

var ErrSuiteNotFound = errors.New("reviews: suite not found")

// ListSuiteReviewsQuery retrieves reviews for a suite.
type ListSuiteReviewsQuery struct {
	SuiteID string
	Limit   int
	Offset  int
}

func (q ListSuiteReviewsQuery) Key() string { return listSuiteReviewsKey }

// ListSuiteReviewsHandler loads paginated reviews for a suite.
type ListSuiteReviewsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListSuiteReviewsHandler) Handle(ctx context.Context, q ListSuiteReviewsQuery) (dto.ReviewCollection, error) {
	limit := normalizeLimit(q.Limit)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	suiteID := domainsuites.SuiteID(q.SuiteID)
	if _, err := unit.Suites().ByID(execCtx, suiteID); err != nil {
		return dto.ReviewCollection{}, fmt.Errorf("%w: %v", ErrSuiteNotFound, err)
	}

	all, err := unit.Reviews().ListBySuite(execCtx, suiteID, 0, 0)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	total := len(all)

	windowEnd := total
	if limit > 0 && offset+limit < windowEnd {
		windowEnd = offset + limit
	}
	if offset > windowEnd {
		offset = windowEnd
	}
	slice := all[offset:windowEnd]

	items := make([]dto.Review, 0, len(slice))
	for _, review := range slice {
		items = append(items, dto.MapReview(review))
	}

	if h.Logger != nil {
		h.Logger.Debug("suite reviews listed", "suite_id", suiteID, "count", len(items), "total", total)
	}

	return dto.ReviewCollection{Items: items, Total: total}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var _ queries.Handler[ListSuiteReviewsQuery, dto.ReviewCollection] = (*ListSuiteReviewsHandler)(nil)
