package calendar

import (
	"context"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	"roomdesk/internal/domain/booking"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "calendar.availability"

type CheckAvailabilityQuery struct {
	HotelID  string `validate:"required"`
	RoomID   string `validate:"required"`
	CheckIn  daterange.Date
	CheckOut daterange.Date
}

func (CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	Hotels policies.HotelDirectory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Availability{}, err
	}
	conflicts, err := conflictsFor(ctx, h.Hotels, q.HotelID, rooms.RoomID(q.RoomID), stay)
	if err != nil {
		return dto.Availability{}, err
	}
	return dto.Availability{
		RoomID:    q.RoomID,
		CheckIn:   stay.CheckIn.String(),
		CheckOut:  stay.CheckOut.String(),
		Available: len(conflicts) == 0,
		Conflicts: dto.MapBookings(conflicts),
	}, nil
}

func conflictsFor(ctx context.Context, hotels policies.HotelDirectory, hotelID string, roomID rooms.RoomID, stay daterange.DateRange) ([]booking.Booking, error) {
	if hotels == nil {
		return nil, ErrDirectoryRequired
	}
	// the upstream window is inclusive on both ends; Conflicts applies the strict overlap
	window := domaincalendar.Window{Start: stay.CheckIn, End: stay.CheckOut}
	existing, err := hotels.Bookings(ctx, hotelID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return booking.Conflicts(roomID, stay, existing), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
