package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"petlodge/internal/app/policies"
	"petlodge/internal/infra/inbox"
)

// BookingEventsHandler consumes booking lifecycle events and turns them into
// customer notifications. The inbox keeps redelivered events from notifying
// twice.
type BookingEventsHandler struct {
	Inbox    *inbox.Store
	Notifier policies.Notifier
	Logger   *slog.Logger
}

type cloudEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type bookingEventData struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
}

func (h *BookingEventsHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("dropping malformed event", "topic", msg.Topic, "error", err)
		}
		return nil
	}
	if h.Inbox != nil && evt.ID != "" {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}

	template, ok := templateFor(evt.Type)
	if !ok {
		return nil
	}

	var data bookingEventData
	if err := json.Unmarshal(evt.Data, &data); err != nil || data.CustomerID == "" {
		return nil
	}
	if h.Notifier == nil {
		return nil
	}
	return h.Notifier.Send(ctx, data.CustomerID, template, map[string]string{
		"booking_id": data.BookingID,
	})
}

func templateFor(eventType string) (string, bool) {
	name := strings.TrimSuffix(eventType, ".v1")
	switch name {
	case "booking.confirmed":
		return "booking_confirmed", true
	case "booking.declined":
		return "booking_declined", true
	case "booking.expired":
		return "booking_expired", true
	case "booking.cancelled":
		return "booking_cancelled", true
	case "booking.checkout_completed":
		return "stay_completed", true
	default:
		return "", false
	}
}
