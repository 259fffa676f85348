package dto

import (
	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

// NoticeNoRooms is shown when a property has no rooms. It is advice, not an error.
const NoticeNoRooms = "no rooms configured for this property"

type Room struct {
	ID            string  `json:"id"`
	Number        string  `json:"number"`
	Type          string  `json:"type"`
	Floor         int     `json:"floor"`
	Status        string  `json:"status"`
	PricePerNight float64 `json:"price_per_night"`
	MaxGuests     int     `json:"max_guests,omitempty"`
	BedType       string  `json:"bed_type,omitempty"`
}

type Booking struct {
	ID              string   `json:"id"`
	RoomRefs        []string `json:"room_refs"`
	RoomNumber      string   `json:"room_number,omitempty"`
	CheckIn         string   `json:"check_in"`
	CheckOut        string   `json:"check_out"`
	Nights          int      `json:"nights"`
	Guests          int      `json:"guests"`
	Status          string   `json:"status"`
	Total           float64  `json:"total"`
	GuestName       string   `json:"guest_name,omitempty"`
	GuestEmail      string   `json:"guest_email,omitempty"`
	GuestPhone      string   `json:"guest_phone,omitempty"`
	SpecialRequests string   `json:"special_requests,omitempty"`
}

type Block struct {
	Booking Booking `json:"booking"`
	Span    int     `json:"span"`
}

type Cell struct {
	Date       string   `json:"date"`
	Today      bool     `json:"today,omitempty"`
	BookingIDs []string `json:"booking_ids"`
	Blocks     []Block  `json:"blocks,omitempty"`
	CanCreate  bool     `json:"can_create"`
}

type Row struct {
	Room  Room   `json:"room"`
	Cells []Cell `json:"cells"`
}

type Column struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Today   bool   `json:"today,omitempty"`
}

type Filter struct {
	RoomType string `json:"room_type"`
	Status   string `json:"status"`
}

type CalendarGrid struct {
	HotelID   string   `json:"hotel_id"`
	View      string   `json:"view"`
	Anchor    string   `json:"anchor"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Today     string   `json:"today"`
	Filter    Filter   `json:"filter"`
	RoomTypes []string `json:"room_types"`
	Columns   []Column `json:"columns"`
	Rows      []Row    `json:"rows"`
	Notice    string   `json:"notice,omitempty"`
}

type GridParams struct {
	HotelID   string
	View      calendar.ViewMode
	Anchor    daterange.Date
	Today     daterange.Date
	Filter    calendar.Filter
	RoomTypes []string
	Grid      calendar.Grid
	NoRooms   bool
}

func MapGrid(p GridParams) CalendarGrid {
	dates := p.Grid.Dates()
	window := calendar.WindowOf(dates)
	out := CalendarGrid{
		HotelID:   p.HotelID,
		View:      string(p.View),
		Anchor:    p.Anchor.String(),
		Start:     window.Start.String(),
		End:       window.End.String(),
		Today:     p.Today.String(),
		Filter:    Filter{RoomType: filterValue(p.Filter.RoomType), Status: filterValue(p.Filter.Status)},
		RoomTypes: append([]string{}, p.RoomTypes...),
		Columns:   make([]Column, 0, len(p.Grid.Columns)),
		Rows:      make([]Row, 0, len(p.Grid.Rows)),
	}
	if p.NoRooms {
		out.Notice = NoticeNoRooms
	}
	for _, c := range p.Grid.Columns {
		out.Columns = append(out.Columns, Column{Date: c.Date.String(), Weekday: c.Weekday.String(), Today: c.Today})
	}
	for _, r := range p.Grid.Rows {
		row := Row{Room: MapRoom(r.Room), Cells: make([]Cell, 0, len(r.Cells))}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, mapCell(c))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func mapCell(c calendar.Cell) Cell {
	cell := Cell{
		Date:       c.Date.String(),
		Today:      c.Today,
		BookingIDs: make([]string, 0, len(c.Occupants)),
		CanCreate:  c.CanCreate,
	}
	for _, b := range c.Occupants {
		cell.BookingIDs = append(cell.BookingIDs, string(b.ID))
	}
	for _, blk := range c.Blocks {
		cell.Blocks = append(cell.Blocks, Block{Booking: MapBooking(blk.Booking), Span: blk.Span})
	}
	return cell
}

func MapRoom(r rooms.Room) Room {
	return Room{
		ID:            string(r.ID),
		Number:        r.Number,
		Type:          r.TypeName,
		Floor:         r.Floor,
		Status:        string(r.Status),
		PricePerNight: r.PricePerNight,
		MaxGuests:     r.MaxGuests,
		BedType:       r.BedType,
	}
}

func MapRooms(in []rooms.Room) []Room {
	out := make([]Room, 0, len(in))
	for _, r := range in {
		out = append(out, MapRoom(r))
	}
	return out
}

func MapBooking(b booking.Booking) Booking {
	return Booking{
		ID:              string(b.ID),
		RoomRefs:        append([]string{}, b.RoomRefs...),
		RoomNumber:      b.RoomNumber,
		CheckIn:         b.Stay.CheckIn.String(),
		CheckOut:        b.Stay.CheckOut.String(),
		Nights:          b.Nights(),
		Guests:          b.Guests,
		Status:          string(b.Status),
		Total:           b.Total,
		GuestName:       b.Guest.Name,
		GuestEmail:      b.Guest.Email,
		GuestPhone:      b.Guest.Phone,
		SpecialRequests: b.SpecialRequests,
	}
}

func MapBookings(in []booking.Booking) []Booking {
	out := make([]Booking, 0, len(in))
	for _, b := range in {
		out = append(out, MapBooking(b))
	}
	return out
}

func filterValue(v string) string {
	if v == "" {
		return calendar.FilterAll
	}
	return v
}

type Availability struct {
	RoomID    string    `json:"room_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Available bool      `json:"available"`
	Conflicts []Booking `json:"conflicts"`
}

type QuickBookingResult struct {
	Booking Booking `json:"booking"`
}

type ExportResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
}
