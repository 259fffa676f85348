package calendar

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/shared/daterange"
)

const exportCalendarKey = "calendar.export"

var ErrExportUnavailable = errors.New("calendar: export storage is not configured")

type ExportCalendarCommand struct {
	HotelID string `validate:"required"`
	Anchor  daterange.Date
	View    domaincalendar.ViewMode
	Filter  domaincalendar.Filter
}

func (ExportCalendarCommand) Key() string { return exportCalendarKey }

type ExportCalendarHandler struct {
	Hotels  policies.HotelDirectory
	Exports policies.ExportStore
	Now     func() time.Time
	Logger  *slog.Logger
}

func (h *ExportCalendarHandler) Handle(ctx context.Context, cmd ExportCalendarCommand) (*dto.ExportResult, error) {
	if h.Exports == nil {
		return nil, ErrExportUnavailable
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	today := daterange.Of(now)
	anchor := cmd.Anchor
	if anchor.IsZero() {
		anchor = today
	}
	view := domaincalendar.ParseViewMode(string(cmd.View))
	dates := domaincalendar.Dates(anchor, view)
	snap, err := Fetch(ctx, h.Hotels, cmd.HotelID, domaincalendar.WindowOf(dates))
	if err != nil {
		return nil, err
	}
	grid := Render(RenderParams{
		HotelID: cmd.HotelID,
		Anchor:  anchor,
		View:    view,
		Filter:  cmd.Filter,
		Today:   today,
		Dates:   dates,
		Snap:    snap,
	})
	body, err := EncodeCSV(grid)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("exports/%s/%s-%s-%d.csv", cmd.HotelID, view, grid.Start, now.Unix())
	const contentType = "text/csv"
	url, err := h.Exports.Put(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}
	if h.Logger != nil {
		h.Logger.Info("calendar exported", "hotel_id", cmd.HotelID, "key", key, "rows", len(grid.Rows))
	}
	return &dto.ExportResult{Key: key, URL: url, ContentType: contentType, Rows: len(grid.Rows)}, nil
}

// EncodeCSV writes one line per room and one column per date. A cell lists the
// ids of the bookings covering it; an empty cell of a room that cannot take
// bookings shows the room status in upper case.
func EncodeCSV(grid dto.CalendarGrid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"room", "type", "floor", "status"}
	for _, c := range grid.Columns {
		header = append(header, c.Date)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range grid.Rows {
		line := []string{row.Room.Number, row.Room.Type, fmt.Sprint(row.Room.Floor), row.Room.Status}
		for _, cell := range row.Cells {
			switch {
			case len(cell.BookingIDs) > 0:
				line = append(line, strings.Join(cell.BookingIDs, " "))
			case cell.CanCreate:
				line = append(line, "")
			default:
				line = append(line, strings.ToUpper(row.Room.Status))
			}
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ commands.Handler[ExportCalendarCommand, *dto.ExportResult] = (*ExportCalendarHandler)(nil)
