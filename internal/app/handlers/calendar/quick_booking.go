package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/middleware"
	"roomdesk/internal/app/outbox"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

const quickBookingKey = "calendar.quick_booking"

type QuickBookingCommand struct {
	HotelID         string `validate:"required"`
	RoomID          string `validate:"required"`
	CheckIn         string `validate:"required,datetime=2006-01-02"`
	CheckOut        string `validate:"omitempty,datetime=2006-01-02"`
	GuestName       string `validate:"required,max=200"`
	GuestEmail      string `validate:"omitempty,email"`
	GuestPhone      string `validate:"omitempty,max=40"`
	Guests          int    `validate:"gte=0,lte=50"`
	SpecialRequests string `validate:"max=2000"`
	IdempotencyKeyV string
}

func (QuickBookingCommand) Key() string { return quickBookingKey }

func (c QuickBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (QuickBookingCommand) ResultPrototype() any { return &dto.QuickBookingResult{} }

type QuickBookingHandler struct {
	Hotels  policies.HotelDirectory
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
	Logger  *slog.Logger
}

// Handle checks the room is free, then asks the hotel backend to create the booking
// exactly once. Nothing is retried here. Once the backend has accepted the booking
// the command succeeds, even if its event cannot be stored.
func (h *QuickBookingHandler) Handle(ctx context.Context, cmd QuickBookingCommand) (*dto.QuickBookingResult, error) {
	draft, err := draftFrom(cmd)
	if err != nil {
		return nil, err
	}
	conflicts, err := conflictsFor(ctx, h.Hotels, cmd.HotelID, draft.RoomID, draft.Stay)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: overlaps booking %s", ErrRoomUnavailable, conflicts[0].ID)
	}
	created, err := h.Hotels.CreateBooking(ctx, cmd.HotelID, draft)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("quick booking created", "hotel_id", cmd.HotelID, "room_id", draft.RoomID, "booking_id", created.ID)
	}
	recordAfterWrite(ctx, h.Logger, h.Outbox, h.Encoder, booking.NewQuickBookingCreated(cmd.HotelID, created, draft.RoomID, h.now()))
	return &dto.QuickBookingResult{Booking: dto.MapBooking(created)}, nil
}

func draftFrom(cmd QuickBookingCommand) (booking.Draft, error) {
	checkIn, err := daterange.Parse(cmd.CheckIn)
	if err != nil {
		return booking.Draft{}, err
	}
	var checkOut daterange.Date
	if cmd.CheckOut != "" {
		if checkOut, err = daterange.Parse(cmd.CheckOut); err != nil {
			return booking.Draft{}, err
		}
	}
	return booking.NewDraft(booking.DraftParams{
		RoomID:   rooms.RoomID(cmd.RoomID),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guest: booking.Guest{
			Name:  cmd.GuestName,
			Email: cmd.GuestEmail,
			Phone: cmd.GuestPhone,
		},
		Guests:          cmd.Guests,
		SpecialRequests: cmd.SpecialRequests,
	})
}

func (h *QuickBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[QuickBookingCommand, *dto.QuickBookingResult] = (*QuickBookingHandler)(nil)
var _ middleware.IdempotentCommand = QuickBookingCommand{}
