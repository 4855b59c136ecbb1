package policies

import "context"

// Notifier delivers guest-facing messages (booking confirmations, expiry
// notices). The log-backed implementation stands in until a mail or push
// provider is wired.
type Notifier interface {
	Send(ctx context.Context, to string, template string, data any) error
}
