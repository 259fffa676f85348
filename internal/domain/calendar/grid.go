package calendar

import (
	"errors"
	"time"

	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

var ErrCellNotFound = errors.New("calendar: cell not found")

// Block is a booking drawn at its check-in column, Span columns wide.
type Block struct {
	Booking booking.Booking
	Span    int
}

// Cell is one (room, date) intersection. Occupants holds every booking covering
// the date; Blocks only those starting on it.
type Cell struct {
	Date      daterange.Date
	Today     bool
	Occupants []booking.Booking
	Blocks    []Block
	CanCreate bool
}

func (c Cell) Empty() bool { return len(c.Occupants) == 0 }

type Column struct {
	Date    daterange.Date
	Weekday time.Weekday
	Today   bool
}

type Row struct {
	Room  rooms.Room
	Cells []Cell
}

type Grid struct {
	Columns []Column
	Rows    []Row
}

// BuildGrid projects bookings onto rooms × dates. Rooms must already be filtered.
func BuildGrid(roomList []rooms.Room, bookings []booking.Booking, dates []daterange.Date, today daterange.Date) Grid {
	cols := make([]Column, len(dates))
	for i, d := range dates {
		cols[i] = Column{Date: d, Weekday: d.Weekday(), Today: d.Equal(today)}
	}
	rows := make([]Row, 0, len(roomList))
	for _, room := range roomList {
		cells := make([]Cell, len(dates))
		for i, d := range dates {
			cells[i] = buildCell(room, d, bookings, dates, cols[i].Today)
		}
		rows = append(rows, Row{Room: room, Cells: cells})
	}
	return Grid{Columns: cols, Rows: rows}
}

func buildCell(room rooms.Room, date daterange.Date, bookings []booking.Booking, dates []daterange.Date, today bool) Cell {
	cell := Cell{Date: date, Today: today}
	cell.Occupants = MatchOccupancy(room.ID, date, bookings)
	for _, b := range cell.Occupants {
		if span := Span(b, date, dates); span > 0 {
			cell.Blocks = append(cell.Blocks, Block{Booking: b, Span: span})
		}
	}
	cell.CanCreate = cell.Empty() && room.Available()
	return cell
}

func (g Grid) Dates() []daterange.Date {
	out := make([]daterange.Date, len(g.Columns))
	for i, c := range g.Columns {
		out[i] = c.Date
	}
	return out
}

func (g Grid) Row(roomID rooms.RoomID) (Row, bool) {
	for _, r := range g.Rows {
		if r.Room.ID == roomID {
			return r, true
		}
	}
	return Row{}, false
}

func (g Grid) Cell(roomID rooms.RoomID, date daterange.Date) (Cell, error) {
	row, ok := g.Row(roomID)
	if !ok {
		return Cell{}, ErrCellNotFound
	}
	for _, c := range row.Cells {
		if c.Date.Equal(date) {
			return c, nil
		}
	}
	return Cell{}, ErrCellNotFound
}
