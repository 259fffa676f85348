package rooms

import "time"

type RoomStatusChanged struct {
	HotelID string    `json:"hotel_id"`
	RoomID  RoomID    `json:"room_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	At      time.Time `json:"at"`
}

func (e RoomStatusChanged) EventName() string     { return "calendar.room_status_changed" }
func (e RoomStatusChanged) AggregateID() string   { return string(e.RoomID) }
func (e RoomStatusChanged) OccurredAt() time.Time { return e.At }
