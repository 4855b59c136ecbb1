package notify

import (
	"context"
	"log/slog"

	"petlodge/internal/app/policies"
)

// LogNotifier writes notifications to the structured log. A real channel
// (email, push) can replace it behind the same port.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, to string, template string, data any) error {
	if n.Logger != nil {
		n.Logger.Info("notification sent", "to", to, "template", template, "data", data)
	}
	return nil
}

var _ policies.Notifier = LogNotifier{}
