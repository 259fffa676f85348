package hotelapi

import (
	"strings"

	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

func firstNonEmpty(values ...flexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

// normalizeRoom maps a wire room to the canonical form. Rooms without an id are
// reported as not ok.
func normalizeRoom(w wireRoom) (rooms.Room, bool) {
	typeName := strings.TrimSpace(w.RoomTypeName)
	if typeName == "" {
		typeName = strings.TrimSpace(w.Type)
	}
	r, err := rooms.NewRoom(rooms.CreateParams{
		ID:            rooms.RoomID(firstNonEmpty(w.ID)),
		Number:        firstNonEmpty(w.RoomNumber, w.Number),
		TypeName:      typeName,
		TypeID:        firstNonEmpty(w.RoomTypeID),
		Floor:         int(w.Floor),
		Status:        w.Status,
		PricePerNight: float64(w.PricePerNight),
		MaxGuests:     int(w.MaxGuests),
		BedType:       w.BedType,
		Notes:         w.Notes,
	})
	if err != nil {
		return rooms.Room{}, false
	}
	return *r, true
}

func normalizeRooms(in []wireRoom) (out []rooms.Room, skipped int) {
	out = make([]rooms.Room, 0, len(in))
	for _, w := range in {
		r, ok := normalizeRoom(w)
		if !ok {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

// normalizeBooking collapses the alias fields into one canonical booking. A date
// that is missing or unparsable stays zero, so the booking never occupies a cell.
func normalizeBooking(hotelID string, w wireBooking) booking.Booking {
	b := booking.Booking{
		ID:              booking.BookingID(firstNonEmpty(w.ID)),
		HotelID:         firstNonEmpty(w.HotelID),
		RoomNumber:      firstNonEmpty(w.RoomNumber, w.RoomNumberAlt),
		RoomType:        strings.TrimSpace(w.RoomTypeName),
		Stay:            daterange.DateRange{CheckIn: parseDate(w.CheckInDate, w.CheckIn, w.CheckInDateAlt), CheckOut: parseDate(w.CheckOutDate, w.CheckOut, w.CheckOutDateAlt)},
		Guests:          int(w.NumberOfGuests),
		Status:          booking.Status(strings.ToUpper(strings.TrimSpace(w.Status))),
		Total:           float64(w.TotalAmount),
		Guest:           booking.Guest{Name: w.GuestName, Email: w.GuestEmail, Phone: w.GuestPhone},
		SpecialRequests: w.SpecialRequests,
	}
	if b.HotelID == "" {
		b.HotelID = hotelID
	}
	if b.Guests == 0 {
		b.Guests = int(w.Guests)
	}
	if b.Total == 0 {
		b.Total = float64(w.TotalPrice)
	}
	for _, ref := range []flexString{w.RoomInstanceID, w.RoomInstanceIDAlt, w.RoomID, w.RoomIDAlt, w.RoomNumber, w.RoomNumberAlt} {
		b.AddRoomRef(string(ref))
	}
	return b
}

func normalizeBookings(hotelID string, in []wireBooking) []booking.Booking {
	out := make([]booking.Booking, 0, len(in))
	for _, w := range in {
		out = append(out, normalizeBooking(hotelID, w))
	}
	return out
}

func parseDate(candidates ...flexString) daterange.Date {
	raw := firstNonEmpty(candidates...)
	if raw == "" {
		return daterange.Date{}
	}
	d, err := daterange.Parse(raw)
	if err != nil {
		return daterange.Date{}
	}
	return d
}
