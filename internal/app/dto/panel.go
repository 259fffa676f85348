package dto

import "roomdesk/internal/domain/calendar"

type FloorRooms struct {
	Floor int    `json:"floor"`
	Rooms []Room `json:"rooms"`
}

type TodayActivity struct {
	CheckIns      []Booking `json:"check_ins"`
	CheckOuts     []Booking `json:"check_outs"`
	CurrentGuests []Booking `json:"current_guests"`
}

type RoomPanel struct {
	HotelID  string                `json:"hotel_id"`
	Today    string                `json:"today"`
	Counts   calendar.StatusCounts `json:"counts"`
	Activity TodayActivity         `json:"activity"`
	Floors   []FloorRooms          `json:"floors"`
	Notice   string                `json:"notice,omitempty"`
}

func MapPanel(hotelID string, today string, p calendar.Panel) RoomPanel {
	out := RoomPanel{
		HotelID: hotelID,
		Today:   today,
		Counts:  p.Counts,
		Activity: TodayActivity{
			CheckIns:      MapBookings(p.Today.CheckIns),
			CheckOuts:     MapBookings(p.Today.CheckOuts),
			CurrentGuests: MapBookings(p.Today.CurrentGuests),
		},
		Floors: make([]FloorRooms, 0, len(p.ByFloor)),
	}
	for _, g := range p.ByFloor {
		out.Floors = append(out.Floors, FloorRooms{Floor: g.Floor, Rooms: MapRooms(g.Rooms)})
	}
	if p.Counts.Total == 0 {
		out.Notice = NoticeNoRooms
	}
	return out
}
