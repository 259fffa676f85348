package memory

import (
	"context"
	"log/slog"
	"sync"

	appoutbox "roomdesk/internal/app/outbox"
)

// Outbox holds events until Flush, which logs and drops them. It is used when no
// broker is configured.
type Outbox struct {
	Logger *slog.Logger

	mu      sync.Mutex
	pending []appoutbox.EventRecord
	flushed int
}

func NewOutbox(logger *slog.Logger) *Outbox {
	return &Outbox{Logger: logger}
}

func (o *Outbox) Add(_ context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

func (o *Outbox) Flush(context.Context) error {
	o.mu.Lock()
	records := o.pending
	o.pending = nil
	o.flushed += len(records)
	o.mu.Unlock()
	if o.Logger != nil {
		for _, rec := range records {
			o.Logger.Debug("event dropped without broker", "event", rec.Name, "event_id", rec.ID, "aggregate", rec.Aggregate)
		}
	}
	return nil
}

// Pending returns a copy of the unflushed records.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.pending...)
}

func (o *Outbox) Flushed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flushed
}

var _ appoutbox.Outbox = (*Outbox)(nil)
