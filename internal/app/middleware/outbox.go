package middleware

import (
	"context"
	"log/slog"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/outbox"
)

// OutboxFlush hands recorded calendar events to the outbox once a command has
// succeeded. By then the hotel backend already holds the booking or status
// change, so a failed flush is logged and the command result still goes back
// to the caller.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil && logger != nil {
				logger.Warn("calendar events not flushed", "command", cmd.Key(), "error", err)
			}
			return res, nil
		})
	}
}
