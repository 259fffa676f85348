package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
)

// Refresher reloads every mounted view of a hotel.
type Refresher interface {
	RefreshHotel(ctx context.Context, hotelID string) int
}

// Inbox reports whether an event id was handled before.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// RefreshHandler turns calendar events published by any instance into view
// reloads on this one, so a booking made elsewhere shows up without waiting for
// the refresh timer.
type RefreshHandler struct {
	Views  Refresher
	Inbox  Inbox
	Logger *slog.Logger
}

type cloudEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		HotelID string `json:"hotel_id"`
	} `json:"data"`
}

func (h *RefreshHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		// a malformed message would be redelivered forever
		if h.Logger != nil {
			h.Logger.Warn("skipping undecodable calendar event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		return nil
	}
	if evt.Data.HotelID == "" {
		return nil
	}
	if h.Inbox != nil && evt.ID != "" {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return fmt.Errorf("kafka: inbox: %w", err)
		}
		if seen {
			return nil
		}
	}
	n := h.Views.RefreshHotel(ctx, evt.Data.HotelID)
	if h.Logger != nil {
		h.Logger.Debug("views refreshed from event", "event", evt.Type, "event_id", evt.ID, "hotel_id", evt.Data.HotelID, "views", n)
	}
	return nil
}

var _ MessageHandler = (*RefreshHandler)(nil)
