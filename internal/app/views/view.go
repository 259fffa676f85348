package views

import (
	"sync"
	"time"

	calendarapp "roomdesk/internal/app/handlers/calendar"
	"roomdesk/internal/app/schedule"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/shared/daterange"
)

// Params selects what a view shows. A change of HotelID, Anchor or View moves the
// fetch window and discards loaded data; a Filter change only re-renders.
type Params struct {
	HotelID string
	Anchor  daterange.Date
	View    domaincalendar.ViewMode
	Filter  domaincalendar.Filter
}

func (p Params) sameWindow(other Params) bool {
	return p.HotelID == other.HotelID &&
		domaincalendar.ParseViewMode(string(p.View)) == domaincalendar.ParseViewMode(string(other.View)) &&
		domaincalendar.WindowOf(domaincalendar.Dates(p.Anchor, p.View)) == domaincalendar.WindowOf(domaincalendar.Dates(other.Anchor, other.View))
}

// view is one mounted calendar screen. All fields are guarded by mu; fetches run
// without holding it.
type view struct {
	id string

	mu         sync.Mutex
	params     Params
	generation uint64
	loadSeq    uint64
	snap       calendarapp.Snapshot
	dates      []daterange.Date
	grid       domaincalendar.Grid
	loaded     bool
	loadedAt   time.Time
	lastErr    string
	overlay    domaincalendar.Overlay
	// last quick booking sent with an idempotency key, kept for retries
	lastSubmit *calendarapp.QuickBookingCommand

	refresh *schedule.Periodic
}

// renderLocked rebuilds the grid from the current snapshot and params.
func (v *view) renderLocked(today daterange.Date) {
	v.grid = calendarapp.Layout(v.renderParams(today))
}

func (v *view) renderParams(today daterange.Date) calendarapp.RenderParams {
	return calendarapp.RenderParams{
		HotelID: v.params.HotelID,
		Anchor:  v.params.Anchor,
		View:    domaincalendar.ParseViewMode(string(v.params.View)),
		Filter:  v.params.Filter,
		Today:   today,
		Dates:   v.dates,
		Snap:    v.snap,
	}
}
