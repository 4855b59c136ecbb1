package payments

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"petlodge/internal/app/policies"
	"petlodge/internal/domain/shared/money"
)

var (
	ErrHoldNotFound = errors.New("payments: hold not found")
)

// Ledger is an in-memory payments adapter. Holds and refunds are tracked per
// booking so the rest of the system can be exercised without a real PSP.
type Ledger struct {
	mu      sync.Mutex
	holds   map[string]holdEntry
	refunds map[string][]money.Money
	Logger  *slog.Logger
}

type holdEntry struct {
	BookingID string
	Amount    money.Money
	Captured  bool
}

func NewLedger(logger *slog.Logger) *Ledger {
	return &Ledger{
		holds:   make(map[string]holdEntry),
		refunds: make(map[string][]money.Money),
		Logger:  logger,
	}
}

func (l *Ledger) PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	holdID := uuid.NewString()
	l.holds[holdID] = holdEntry{BookingID: bookingID, Amount: amount}
	if l.Logger != nil {
		l.Logger.Info("payment hold placed", "booking_id", bookingID, "hold_id", holdID, "amount_cents", amount.Amount)
	}
	return holdID, nil
}

func (l *Ledger) Capture(ctx context.Context, holdID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.holds[holdID]
	if !ok {
		return ErrHoldNotFound
	}
	entry.Captured = true
	l.holds[holdID] = entry
	if l.Logger != nil {
		l.Logger.Info("payment hold captured", "booking_id", entry.BookingID, "hold_id", holdID)
	}
	return nil
}

func (l *Ledger) Refund(ctx context.Context, bookingID string, amount money.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refunds[bookingID] = append(l.refunds[bookingID], amount)
	if l.Logger != nil {
		l.Logger.Info("refund issued", "booking_id", bookingID, "amount_cents", amount.Amount)
	}
	return nil
}

// Refunds reports the refunds issued for a booking, newest last.
func (l *Ledger) Refunds(bookingID string) []money.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]money.Money(nil), l.refunds[bookingID]...)
}

var _ policies.PaymentsPort = (*Ledger)(nil)
