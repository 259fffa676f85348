package calendar

import (
	"context"
	"log/slog"

	"roomdesk/internal/app/outbox"
	"roomdesk/internal/domain/shared/events"
)

// recordAfterWrite stores events for a change the hotel backend has already
// accepted. The change cannot be taken back, so a storage failure is logged and
// the command still succeeds; open views catch up on their next refresh.
func recordAfterWrite(ctx context.Context, logger *slog.Logger, box outbox.Outbox, encoder outbox.EventEncoder, evs ...events.DomainEvent) {
	if err := outbox.Record(ctx, box, encoder, evs...); err != nil && logger != nil {
		for _, ev := range evs {
			logger.Warn("calendar event not recorded", "event", ev.EventName(), "aggregate_id", ev.AggregateID(), "error", err)
		}
	}
}
