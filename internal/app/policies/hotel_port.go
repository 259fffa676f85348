package policies

import (
	"context"

	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

// HotelDirectory is the hotel backend that owns rooms and bookings. Results are
// already canonical: room references collapsed, dates parsed, statuses lower-cased.
type HotelDirectory interface {
	Rooms(ctx context.Context, hotelID string) ([]rooms.Room, error)
	// Bookings returns bookings with checkIn <= end and checkOut >= start.
	Bookings(ctx context.Context, hotelID string, start, end daterange.Date) ([]booking.Booking, error)
	CreateBooking(ctx context.Context, hotelID string, draft booking.Draft) (booking.Booking, error)
	UpdateRoomStatus(ctx context.Context, roomID rooms.RoomID, status rooms.Status) error
}

// ExportStore keeps rendered calendar exports and returns where they can be fetched.
type ExportStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
