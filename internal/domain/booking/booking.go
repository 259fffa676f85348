package booking

import (
	"errors"
	"strings"
	"time"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

var (
	ErrInvalidGuests = errors.New("booking: guests count must be positive")
	ErrGuestRequired = errors.New("booking: guest name required")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Guest holds the contact details captured at booking time.
type Guest struct {
	Name  string
	Email string
	Phone string
}

// Booking is the canonical form of an upstream reservation. RoomRefs collects every
// room reference the record carried (instance id, room id, room number) so that
// matching a room is a single membership check.
type Booking struct {
	ID              BookingID
	HotelID         string
	RoomRefs        []string
	RoomNumber      string
	RoomType        string
	Stay            daterange.DateRange
	Guests          int
	Status          Status
	Total           float64
	Guest           Guest
	SpecialRequests string
}

// References reports whether any of the booking's room references equals id.
func (b Booking) References(id rooms.RoomID) bool {
	target := strings.TrimSpace(string(id))
	if target == "" {
		return false
	}
	for _, ref := range b.RoomRefs {
		if ref == target {
			return true
		}
	}
	return false
}

// Dated is false when either bound is missing. Such records never occupy a date.
func (b Booking) Dated() bool {
	return !b.Stay.CheckIn.IsZero() && !b.Stay.CheckOut.IsZero()
}

// Occupies reports checkIn <= d < checkOut.
func (b Booking) Occupies(d daterange.Date) bool {
	return b.Stay.ContainsDate(d)
}

func (b Booking) Cancelled() bool {
	return strings.EqualFold(string(b.Status), string(StatusCancelled))
}

func (b Booking) Nights() int {
	return b.Stay.Nights()
}

// AddRoomRef appends a trimmed, non-empty reference once.
func (b *Booking) AddRoomRef(ref string) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return
	}
	for _, existing := range b.RoomRefs {
		if existing == ref {
			return
		}
	}
	b.RoomRefs = append(b.RoomRefs, ref)
}

// Draft is a quick booking that has not been sent upstream yet.
type Draft struct {
	RoomID          rooms.RoomID
	Stay            daterange.DateRange
	Guest           Guest
	Guests          int
	SpecialRequests string
}

type DraftParams struct {
	RoomID          rooms.RoomID
	CheckIn         daterange.Date
	CheckOut        daterange.Date
	Guest           Guest
	Guests          int
	SpecialRequests string
}

// NewDraft checks a quick booking. A missing check-out defaults to one night and a
// missing guest count defaults to one.
func NewDraft(params DraftParams) (Draft, error) {
	if strings.TrimSpace(string(params.RoomID)) == "" {
		return Draft{}, rooms.ErrIDRequired
	}
	checkOut := params.CheckOut
	if checkOut.IsZero() {
		checkOut = params.CheckIn.AddDays(1)
	}
	stay, err := daterange.New(params.CheckIn, checkOut)
	if err != nil {
		return Draft{}, err
	}
	guests := params.Guests
	if guests == 0 {
		guests = 1
	}
	if guests < 0 {
		return Draft{}, ErrInvalidGuests
	}
	guest := Guest{
		Name:  strings.TrimSpace(params.Guest.Name),
		Email: strings.TrimSpace(params.Guest.Email),
		Phone: strings.TrimSpace(params.Guest.Phone),
	}
	if guest.Name == "" {
		return Draft{}, ErrGuestRequired
	}
	return Draft{
		RoomID:          rooms.RoomID(strings.TrimSpace(string(params.RoomID))),
		Stay:            stay,
		Guest:           guest,
		Guests:          guests,
		SpecialRequests: strings.TrimSpace(params.SpecialRequests),
	}, nil
}

// Conflicts returns the bookings that would collide with the draft. Cancelled
// bookings never conflict.
func Conflicts(roomID rooms.RoomID, stay daterange.DateRange, existing []Booking) []Booking {
	var out []Booking
	for _, b := range existing {
		if b.Cancelled() || !b.Dated() || !b.References(roomID) {
			continue
		}
		if b.Stay.Overlaps(stay) {
			out = append(out, b)
		}
	}
	return out
}

type QuickBookingCreated struct {
	HotelID   string    `json:"hotel_id"`
	BookingID BookingID `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Guests    int       `json:"guests"`
	Total     float64   `json:"total"`
	At        time.Time `json:"at"`
}

func (e QuickBookingCreated) EventName() string     { return "calendar.quick_booking_created" }
func (e QuickBookingCreated) AggregateID() string   { return e.RoomID }
func (e QuickBookingCreated) OccurredAt() time.Time { return e.At }

func NewQuickBookingCreated(hotelID string, b Booking, roomID rooms.RoomID, now time.Time) QuickBookingCreated {
	return QuickBookingCreated{
		HotelID:   hotelID,
		BookingID: b.ID,
		RoomID:    string(roomID),
		CheckIn:   b.Stay.CheckIn.String(),
		CheckOut:  b.Stay.CheckOut.String(),
		Guests:    b.Guests,
		Total:     b.Total,
		At:        now.UTC(),
	}
}
