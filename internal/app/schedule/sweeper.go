package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"petlodge/internal/app/outbox"
	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
)

// ExpirySweeper expires booking requests the facility never answered and
// frees their calendar holds. It runs as a background loop alongside the
// outbox worker.
type ExpirySweeper struct {
	Factory  uow.UoWFactory
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	TTL      time.Duration
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

func (s *ExpirySweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				s.Logger.Error("expiry sweep failed", "error", err)
			}
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) error {
	now := s.now()
	unit, err := s.Factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	defer unit.Rollback(ctx)

	pending, err := unit.Booking().ListPendingBefore(ctx, now.Add(-s.TTL))
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	for _, b := range pending {
		if err := b.Expire(now); err != nil {
			continue
		}
		for _, suiteID := range b.SuiteIDs() {
			cal, err := unit.Availability().Calendar(ctx, suiteID)
			if err != nil {
				if errors.Is(err, domainavailability.ErrCalendarNotFound) {
					continue
				}
				return err
			}
			if err := cal.Release(string(b.ID), now); err != nil && !errors.Is(err, domainavailability.ErrRangeNotFound) {
				return err
			}
			if err := unit.Availability().Save(ctx, cal); err != nil {
				return err
			}
			if err := outbox.RecordDomainEvents(ctx, s.Outbox, s.Encoder, cal.PendingEvents()); err != nil {
				return err
			}
			cal.ClearEvents()
		}
		if err := unit.Booking().Save(ctx, b); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, s.Outbox, s.Encoder, b.PendingEvents()); err != nil {
			return err
		}
		b.ClearEvents()
		s.Logger.Info("booking expired", "booking_id", string(b.ID))
	}

	if err := unit.Commit(ctx); err != nil {
		return err
	}
	return s.Outbox.Flush(ctx)
}

func (s *ExpirySweeper) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
