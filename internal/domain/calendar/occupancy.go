package calendar

import (
	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

// MatchOccupancy returns the bookings that reference roomID and cover date, in
// input order. Bookings without both dates never match. Overlapping bookings are
// all returned.
func MatchOccupancy(roomID rooms.RoomID, date daterange.Date, bookings []booking.Booking) []booking.Booking {
	var out []booking.Booking
	for _, b := range bookings {
		if b.References(roomID) && b.Occupies(date) {
			out = append(out, b)
		}
	}
	return out
}

// Span is the number of rendered columns a booking covers when drawn at date.
// It is zero unless date is the check-in, and is clipped to the visible dates.
func Span(b booking.Booking, date daterange.Date, dates []daterange.Date) int {
	if !b.Dated() || !date.Equal(b.Stay.CheckIn) {
		return 0
	}
	n := 0
	for _, d := range dates {
		if b.Occupies(d) {
			n++
		}
	}
	return n
}
