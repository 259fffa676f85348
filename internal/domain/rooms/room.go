package rooms

import (
	"errors"
	"strings"
	"time"

	"roomdesk/internal/domain/shared/events"
)

var (
	ErrRoomNotFound  = errors.New("rooms: room not found")
	ErrInvalidStatus = errors.New("rooms: unknown status")
	ErrIDRequired    = errors.New("rooms: id required")
)

type RoomID string

// Status is the lower-case form used for filtering and eligibility checks.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
	StatusBlocked     Status = "blocked"
)

const DefaultFloor = 1

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusBlocked:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// NormalizeStatus lower-cases whatever the backend sent, known or not.
func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

func (s Status) Known() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Wire is the upper-case form the hotel backend expects.
func (s Status) Wire() string {
	return strings.ToUpper(string(s))
}

// Equal compares case-insensitively.
func (s Status) Equal(other string) bool {
	return strings.EqualFold(string(s), strings.TrimSpace(other))
}

type Room struct {
	events.EventRecorder

	ID            RoomID
	Number        string
	TypeName      string
	TypeID        string
	Floor         int
	Status        Status
	PricePerNight float64
	MaxGuests     int
	BedType       string
	Notes         string
}

type CreateParams struct {
	ID            RoomID
	Number        string
	TypeName      string
	TypeID        string
	Floor         int
	Status        string
	PricePerNight float64
	MaxGuests     int
	BedType       string
	Notes         string
}

// NewRoom builds a canonical room. A missing floor becomes DefaultFloor and the
// status keeps whatever value arrived, lower-cased.
func NewRoom(params CreateParams) (*Room, error) {
	id := RoomID(strings.TrimSpace(string(params.ID)))
	if id == "" {
		return nil, ErrIDRequired
	}
	floor := params.Floor
	if floor == 0 {
		floor = DefaultFloor
	}
	number := strings.TrimSpace(params.Number)
	if number == "" {
		number = string(id)
	}
	return &Room{
		ID:            id,
		Number:        number,
		TypeName:      strings.TrimSpace(params.TypeName),
		TypeID:        strings.TrimSpace(params.TypeID),
		Floor:         floor,
		Status:        NormalizeStatus(params.Status),
		PricePerNight: params.PricePerNight,
		MaxGuests:     params.MaxGuests,
		BedType:       params.BedType,
		Notes:         params.Notes,
	}, nil
}

func (r *Room) Available() bool {
	return r != nil && r.Status == StatusAvailable
}

// ChangeStatus moves the room to next and records a RoomStatusChanged for
// hotelID. It reports false, recording nothing, when the status is unchanged.
func (r *Room) ChangeStatus(hotelID string, next Status, now time.Time) bool {
	if r.Status == next {
		return false
	}
	prev := r.Status
	r.Status = next
	r.Record(RoomStatusChanged{HotelID: hotelID, RoomID: r.ID, From: prev, To: next, At: now.UTC()})
	return true
}

func Clone(in []Room) []Room {
	if in == nil {
		return nil
	}
	out := make([]Room, len(in))
	for i := range in {
		out[i] = in[i]
		// pending events stay with the original
		out[i].EventRecorder = events.EventRecorder{}
	}
	return out
}
