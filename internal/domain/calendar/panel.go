package calendar

import (
	"sort"

	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

type StatusCounts struct {
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
	Blocked     int `json:"blocked"`
	Total       int `json:"total"`
}

// Activity is what happens on the front desk today.
type Activity struct {
	CheckIns      []booking.Booking
	CheckOuts     []booking.Booking
	CurrentGuests []booking.Booking
}

type FloorGroup struct {
	Floor int
	Rooms []rooms.Room
}

type Panel struct {
	Counts  StatusCounts
	Today   Activity
	ByFloor []FloorGroup
}

// BuildPanel summarises rooms and bookings for the status side panel.
func BuildPanel(roomList []rooms.Room, bookings []booking.Booking, today daterange.Date) Panel {
	return Panel{
		Counts:  CountStatuses(roomList),
		Today:   TodayActivity(bookings, today),
		ByFloor: GroupByFloor(roomList),
	}
}

// CountStatuses counts each known status. Unknown statuses only count in Total.
func CountStatuses(roomList []rooms.Room) StatusCounts {
	c := StatusCounts{Total: len(roomList)}
	for _, r := range roomList {
		switch r.Status {
		case rooms.StatusAvailable:
			c.Available++
		case rooms.StatusOccupied:
			c.Occupied++
		case rooms.StatusMaintenance:
			c.Maintenance++
		case rooms.StatusBlocked:
			c.Blocked++
		}
	}
	return c
}

func TodayActivity(bookings []booking.Booking, today daterange.Date) Activity {
	var a Activity
	for _, b := range bookings {
		if b.Stay.CheckIn.Equal(today) && !today.IsZero() {
			a.CheckIns = append(a.CheckIns, b)
		}
		if b.Stay.CheckOut.Equal(today) && !today.IsZero() {
			a.CheckOuts = append(a.CheckOuts, b)
		}
		if b.Occupies(today) {
			a.CurrentGuests = append(a.CurrentGuests, b)
		}
	}
	return a
}

// GroupByFloor buckets rooms by floor, floors ascending, rooms in input order.
func GroupByFloor(roomList []rooms.Room) []FloorGroup {
	idx := map[int]int{}
	var groups []FloorGroup
	for _, r := range roomList {
		floor := r.Floor
		if floor == 0 {
			floor = rooms.DefaultFloor
		}
		i, ok := idx[floor]
		if !ok {
			i = len(groups)
			idx[floor] = i
			groups = append(groups, FloorGroup{Floor: floor})
		}
		groups[i].Rooms = append(groups[i].Rooms, r)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Floor < groups[b].Floor })
	return groups
}
