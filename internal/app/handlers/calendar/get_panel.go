package calendar

import (
	"context"
	"time"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/shared/daterange"
)

const getPanelKey = "calendar.room_panel"

type GetRoomPanelQuery struct {
	HotelID string `validate:"required"`
}

func (GetRoomPanelQuery) Key() string { return getPanelKey }

type GetRoomPanelHandler struct {
	Hotels policies.HotelDirectory
	Now    func() time.Time
}

// Handle fetches with a one-day window on today, which covers today's arrivals,
// departures and in-house guests.
func (h *GetRoomPanelHandler) Handle(ctx context.Context, q GetRoomPanelQuery) (dto.RoomPanel, error) {
	today := daterange.Today(h.Now)
	snap, err := Fetch(ctx, h.Hotels, q.HotelID, domaincalendar.Window{Start: today, End: today})
	if err != nil {
		return dto.RoomPanel{}, err
	}
	panel := domaincalendar.BuildPanel(snap.Rooms, snap.Bookings, today)
	return dto.MapPanel(q.HotelID, today.String(), panel), nil
}

var _ queries.Handler[GetRoomPanelQuery, dto.RoomPanel] = (*GetRoomPanelHandler)(nil)
