package calendar

import (
	"context"
	"log/slog"
	"time"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/shared/daterange"
)

const getGridKey = "calendar.grid"

type GetGridQuery struct {
	HotelID string `validate:"required"`
	Anchor  daterange.Date
	View    domaincalendar.ViewMode
	Filter  domaincalendar.Filter
}

func (GetGridQuery) Key() string { return getGridKey }

type GetGridHandler struct {
	Hotels policies.HotelDirectory
	Now    func() time.Time
	Logger *slog.Logger
}

func (h *GetGridHandler) Handle(ctx context.Context, q GetGridQuery) (dto.CalendarGrid, error) {
	today := daterange.Today(h.Now)
	anchor := q.Anchor
	if anchor.IsZero() {
		anchor = today
	}
	view := domaincalendar.ParseViewMode(string(q.View))
	dates := domaincalendar.Dates(anchor, view)

	snap, err := Fetch(ctx, h.Hotels, q.HotelID, domaincalendar.WindowOf(dates))
	if err != nil {
		return dto.CalendarGrid{}, err
	}
	if snap.Empty() && h.Logger != nil {
		h.Logger.Info("property has no rooms", "hotel_id", q.HotelID)
	}
	return Render(RenderParams{
		HotelID: q.HotelID,
		Anchor:  anchor,
		View:    view,
		Filter:  q.Filter,
		Today:   today,
		Dates:   dates,
		Snap:    snap,
	}), nil
}

type RenderParams struct {
	HotelID string
	Anchor  daterange.Date
	View    domaincalendar.ViewMode
	Filter  domaincalendar.Filter
	Today   daterange.Date
	Dates   []daterange.Date
	Snap    Snapshot
}

// Layout filters the snapshot's rooms and lays out the grid. Filtering happens
// here so that a filter change never needs a refetch.
func Layout(p RenderParams) domaincalendar.Grid {
	visible := domaincalendar.FilterRooms(p.Snap.Rooms, p.Filter)
	return domaincalendar.BuildGrid(visible, p.Snap.Bookings, p.Dates, p.Today)
}

func Render(p RenderParams) dto.CalendarGrid {
	return Present(p, Layout(p))
}

// Present maps an already laid out grid.
func Present(p RenderParams, grid domaincalendar.Grid) dto.CalendarGrid {
	return dto.MapGrid(dto.GridParams{
		HotelID:   p.HotelID,
		View:      p.View,
		Anchor:    p.Anchor,
		Today:     p.Today,
		Filter:    p.Filter,
		RoomTypes: domaincalendar.RoomTypes(p.Snap.Rooms),
		Grid:      grid,
		NoRooms:   p.Snap.Empty(),
	})
}

var _ queries.Handler[GetGridQuery, dto.CalendarGrid] = (*GetGridHandler)(nil)
