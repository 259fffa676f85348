package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"roomdesk/internal/app/policies"
	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

var ErrHotelNotFound = errors.New("memory: hotel not found")

// Fixture is the on-disk seed for the in-memory hotel directory.
type Fixture struct {
	Hotels []HotelFixture `json:"hotels"`
}

type HotelFixture struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Rooms    []RoomFixture    `json:"rooms"`
	Bookings []BookingFixture `json:"bookings"`
}

type RoomFixture struct {
	ID            string  `json:"id"`
	Number        string  `json:"number"`
	Type          string  `json:"type"`
	Floor         int     `json:"floor"`
	Status        string  `json:"status"`
	PricePerNight float64 `json:"pricePerNight"`
	MaxGuests     int     `json:"maxGuests"`
	BedType       string  `json:"bedType"`
}

type BookingFixture struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Guests     int    `json:"guests"`
	Status     string `json:"status"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
}

func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("memory: read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return Fixture{}, fmt.Errorf("memory: decode fixture %s: %w", path, err)
	}
	return fx, nil
}

type hotel struct {
	rooms    []rooms.Room
	bookings []booking.Booking
}

// HotelDirectory stands in for the hotel backend. It prices bookings as nightly
// rate times nights, confirms them immediately and marks the room occupied.
type HotelDirectory struct {
	mu     sync.RWMutex
	hotels map[string]*hotel
	order  []string
}

func NewHotelDirectory(fx Fixture) (*HotelDirectory, error) {
	d := &HotelDirectory{hotels: make(map[string]*hotel)}
	for _, hf := range fx.Hotels {
		id := strings.TrimSpace(hf.ID)
		if id == "" {
			return nil, errors.New("memory: fixture hotel without id")
		}
		h := &hotel{}
		for _, rf := range hf.Rooms {
			r, err := rooms.NewRoom(rooms.CreateParams{
				ID:            rooms.RoomID(rf.ID),
				Number:        rf.Number,
				TypeName:      rf.Type,
				Floor:         rf.Floor,
				Status:        rf.Status,
				PricePerNight: rf.PricePerNight,
				MaxGuests:     rf.MaxGuests,
				BedType:       rf.BedType,
			})
			if err != nil {
				return nil, fmt.Errorf("memory: hotel %s: %w", id, err)
			}
			h.rooms = append(h.rooms, *r)
		}
		for _, bf := range hf.Bookings {
			b, err := bookingFromFixture(id, bf, h.rooms)
			if err != nil {
				return nil, fmt.Errorf("memory: hotel %s booking %s: %w", id, bf.ID, err)
			}
			h.bookings = append(h.bookings, b)
		}
		d.hotels[id] = h
		d.order = append(d.order, id)
	}
	return d, nil
}

func bookingFromFixture(hotelID string, bf BookingFixture, list []rooms.Room) (booking.Booking, error) {
	checkIn, err := daterange.Parse(bf.CheckIn)
	if err != nil {
		return booking.Booking{}, err
	}
	checkOut, err := daterange.Parse(bf.CheckOut)
	if err != nil {
		return booking.Booking{}, err
	}
	b := booking.Booking{
		ID:      booking.BookingID(bf.ID),
		HotelID: hotelID,
		Stay:    daterange.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Guests:  bf.Guests,
		Status:  booking.Status(strings.ToUpper(bf.Status)),
		Guest:   booking.Guest{Name: bf.GuestName, Email: bf.GuestEmail},
	}
	if b.Status == "" {
		b.Status = booking.StatusConfirmed
	}
	b.AddRoomRef(bf.RoomID)
	if r, ok := findRoom(list, rooms.RoomID(bf.RoomID)); ok {
		b.AddRoomRef(r.Number)
		b.RoomNumber = r.Number
		b.RoomType = r.TypeName
		b.Total = quote(r, b.Stay)
	}
	return b, nil
}

// HotelIDs lists the seeded hotels in fixture order.
func (d *HotelDirectory) HotelIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...)
}

func (d *HotelDirectory) Rooms(_ context.Context, hotelID string) ([]rooms.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.hotels[hotelID]
	if !ok {
		return nil, ErrHotelNotFound
	}
	return rooms.Clone(h.rooms), nil
}

// Bookings returns bookings touching [start, end]: checkIn <= end and checkOut >= start.
// A zero bound is open.
func (d *HotelDirectory) Bookings(_ context.Context, hotelID string, start, end daterange.Date) ([]booking.Booking, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.hotels[hotelID]
	if !ok {
		return nil, ErrHotelNotFound
	}
	out := make([]booking.Booking, 0, len(h.bookings))
	for _, b := range h.bookings {
		if !end.IsZero() && b.Stay.CheckIn.After(end) {
			continue
		}
		if !start.IsZero() && b.Stay.CheckOut.Before(start) {
			continue
		}
		cp := b
		cp.RoomRefs = append([]string(nil), b.RoomRefs...)
		out = append(out, cp)
	}
	return out, nil
}

func (d *HotelDirectory) CreateBooking(_ context.Context, hotelID string, draft booking.Draft) (booking.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, ok := d.hotels[hotelID]
	if !ok {
		return booking.Booking{}, ErrHotelNotFound
	}
	idx := -1
	for i := range h.rooms {
		if h.rooms[i].ID == draft.RoomID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return booking.Booking{}, rooms.ErrRoomNotFound
	}
	room := &h.rooms[idx]
	b := booking.Booking{
		ID:              booking.BookingID(uuid.NewString()),
		HotelID:         hotelID,
		RoomNumber:      room.Number,
		RoomType:        room.TypeName,
		Stay:            draft.Stay,
		Guests:          draft.Guests,
		Status:          booking.StatusConfirmed,
		Total:           quote(*room, draft.Stay),
		Guest:           draft.Guest,
		SpecialRequests: draft.SpecialRequests,
	}
	b.AddRoomRef(string(room.ID))
	b.AddRoomRef(room.Number)
	h.bookings = append(h.bookings, b)
	room.Status = rooms.StatusOccupied
	return b, nil
}

func (d *HotelDirectory) UpdateRoomStatus(_ context.Context, roomID rooms.RoomID, status rooms.Status) error {
	if !status.Known() {
		return rooms.ErrInvalidStatus
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.hotels {
		for i := range h.rooms {
			if h.rooms[i].ID == roomID {
				h.rooms[i].Status = status
				return nil
			}
		}
	}
	return rooms.ErrRoomNotFound
}

func findRoom(list []rooms.Room, id rooms.RoomID) (rooms.Room, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return rooms.Room{}, false
}

var _ policies.HotelDirectory = (*HotelDirectory)(nil)
