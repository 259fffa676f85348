package calendar

import (
	"context"
	"log/slog"
	"time"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/outbox"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/domain/rooms"
)

const updateRoomStatusKey = "calendar.update_room_status"

type UpdateRoomStatusCommand struct {
	HotelID string `validate:"required"`
	RoomID  string `validate:"required"`
	Status  string `validate:"required"`
}

func (UpdateRoomStatusCommand) Key() string { return updateRoomStatusKey }

// Room status changes are reserved for administrators.
func (UpdateRoomStatusCommand) RequiresAdmin() bool { return true }

type UpdateRoomStatusHandler struct {
	Hotels  policies.HotelDirectory
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
	Logger  *slog.Logger
}

func (h *UpdateRoomStatusHandler) Handle(ctx context.Context, cmd UpdateRoomStatusCommand) (*dto.Room, error) {
	if h.Hotels == nil {
		return nil, ErrDirectoryRequired
	}
	next, err := rooms.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	list, err := h.Hotels.Rooms(ctx, cmd.HotelID)
	if err != nil {
		return nil, err
	}
	var room *rooms.Room
	for i := range list {
		if list[i].ID == rooms.RoomID(cmd.RoomID) {
			room = &list[i]
			break
		}
	}
	if room == nil {
		return nil, rooms.ErrRoomNotFound
	}
	if err := h.Hotels.UpdateRoomStatus(ctx, room.ID, next); err != nil {
		return nil, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if room.ChangeStatus(cmd.HotelID, next, now) {
		if h.Logger != nil {
			h.Logger.Info("room status changed", "hotel_id", cmd.HotelID, "room_id", room.ID, "to", next)
		}
		recordAfterWrite(ctx, h.Logger, h.Outbox, h.Encoder, room.PullEvents()...)
	}
	out := dto.MapRoom(*room)
	return &out, nil
}

var _ commands.Handler[UpdateRoomStatusCommand, *dto.Room] = (*UpdateRoomStatusHandler)(nil)
