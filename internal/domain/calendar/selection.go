package calendar

import (
	"errors"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

var (
	ErrCellNotEligible = errors.New("calendar: cell is occupied or room is not available")
	ErrSelectionActive = errors.New("calendar: a cell is already selected")
	ErrNoSelection     = errors.New("calendar: no cell selected")
)

// Selection is the (room, date) a quick booking is anchored to.
type Selection struct {
	RoomID rooms.RoomID   `json:"roomId"`
	Date   daterange.Date `json:"date"`
}

// Overlay tracks the quick-booking modal: closed, or open on one selection.
// The zero value is closed.
type Overlay struct {
	current *Selection
}

// Open selects an empty cell of an available room.
func (o *Overlay) Open(g Grid, roomID rooms.RoomID, date daterange.Date) (Selection, error) {
	if o.current != nil {
		return Selection{}, ErrSelectionActive
	}
	cell, err := g.Cell(roomID, date)
	if err != nil {
		return Selection{}, err
	}
	if !cell.CanCreate {
		return Selection{}, ErrCellNotEligible
	}
	sel := Selection{RoomID: roomID, Date: date}
	o.current = &sel
	return sel, nil
}

// Close returns to the closed state. Closing twice is harmless.
func (o *Overlay) Close() {
	o.current = nil
}

func (o *Overlay) Current() (Selection, bool) {
	if o.current == nil {
		return Selection{}, false
	}
	return *o.current, true
}
