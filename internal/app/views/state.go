package views

import (
	"time"

	"roomdesk/internal/app/dto"
	calendarapp "roomdesk/internal/app/handlers/calendar"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/shared/daterange"
)

// State is what a client sees of a mounted view.
type State struct {
	ID         string                    `json:"id"`
	Generation uint64                    `json:"generation"`
	Loaded     bool                      `json:"loaded"`
	LoadedAt   *time.Time                `json:"loaded_at,omitempty"`
	Refreshing bool                      `json:"refreshing"`
	Error      string                    `json:"error,omitempty"`
	Selection  *domaincalendar.Selection `json:"selection,omitempty"`
	Grid       dto.CalendarGrid          `json:"grid"`
}

func (v *view) stateLocked(today daterange.Date) State {
	st := State{
		ID:         v.id,
		Generation: v.generation,
		Loaded:     v.loaded,
		Refreshing: v.refresh != nil && v.refresh.Running(),
		Error:      v.lastErr,
	}
	if v.loaded {
		at := v.loadedAt
		st.LoadedAt = &at
		st.Grid = calendarapp.Present(v.renderParams(today), v.grid)
	} else {
		st.Grid = dto.CalendarGrid{
			HotelID: v.params.HotelID,
			View:    string(domaincalendar.ParseViewMode(string(v.params.View))),
			Anchor:  v.params.Anchor.String(),
			Today:   today.String(),
		}
	}
	if sel, ok := v.overlay.Current(); ok {
		st.Selection = &sel
	}
	return st
}
