package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

func stay(in, out string) daterange.DateRange {
	dr := daterange.DateRange{}
	if in != "" {
		dr.CheckIn = daterange.MustParse(in)
	}
	if out != "" {
		dr.CheckOut = daterange.MustParse(out)
	}
	return dr
}

func TestReferences(t *testing.T) {
	b := Booking{ID: "9"}
	b.AddRoomRef("2")
	b.AddRoomRef(" 2 ")
	b.AddRoomRef("")
	b.AddRoomRef("201")

	assert.Equal(t, []string{"2", "201"}, b.RoomRefs)
	assert.True(t, b.References("2"))
	assert.True(t, b.References("201"))
	assert.False(t, b.References("20"))
	assert.False(t, b.References(""))
}

func TestOccupies(t *testing.T) {
	b := Booking{Stay: stay("2024-10-14", "2024-10-17")}
	assert.True(t, b.Dated())
	assert.True(t, b.Occupies(daterange.MustParse("2024-10-14")))
	assert.True(t, b.Occupies(daterange.MustParse("2024-10-16")))
	assert.False(t, b.Occupies(daterange.MustParse("2024-10-17")))

	zero := Booking{Stay: stay("2024-10-14", "2024-10-14")}
	assert.False(t, zero.Occupies(daterange.MustParse("2024-10-14")))

	missing := Booking{Stay: stay("2024-10-14", "")}
	assert.False(t, missing.Dated())
	assert.False(t, missing.Occupies(daterange.MustParse("2024-10-14")))
}

func TestNewDraft(t *testing.T) {
	checkIn := daterange.MustParse("2024-10-15")

	d, err := NewDraft(DraftParams{RoomID: "1", CheckIn: checkIn, Guest: Guest{Name: " Ann "}})
	require.NoError(t, err)
	assert.Equal(t, "2024-10-16", d.Stay.CheckOut.String())
	assert.Equal(t, 1, d.Guests)
	assert.Equal(t, "Ann", d.Guest.Name)

	_, err = NewDraft(DraftParams{RoomID: "1", CheckIn: checkIn, CheckOut: checkIn, Guest: Guest{Name: "Ann"}})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = NewDraft(DraftParams{RoomID: "1", CheckIn: checkIn})
	assert.ErrorIs(t, err, ErrGuestRequired)

	_, err = NewDraft(DraftParams{CheckIn: checkIn, Guest: Guest{Name: "Ann"}})
	assert.ErrorIs(t, err, rooms.ErrIDRequired)

	_, err = NewDraft(DraftParams{RoomID: "1", CheckIn: checkIn, Guests: -2, Guest: Guest{Name: "Ann"}})
	assert.ErrorIs(t, err, ErrInvalidGuests)
}

func TestConflicts(t *testing.T) {
	existing := []Booking{
		{ID: "a", RoomRefs: []string{"1"}, Stay: stay("2024-10-10", "2024-10-15"), Status: StatusConfirmed},
		{ID: "b", RoomRefs: []string{"1"}, Stay: stay("2024-10-15", "2024-10-18"), Status: StatusCancelled},
		{ID: "c", RoomRefs: []string{"2"}, Stay: stay("2024-10-15", "2024-10-18"), Status: StatusConfirmed},
		{ID: "d", RoomRefs: []string{"1"}, Stay: stay("2024-10-16", ""), Status: StatusConfirmed},
		{ID: "e", RoomRefs: []string{"1"}, Stay: stay("2024-10-16", "2024-10-20"), Status: StatusPending},
	}
	got := Conflicts("1", stay("2024-10-15", "2024-10-17"), existing)
	require.Len(t, got, 1)
	assert.Equal(t, BookingID("e"), got[0].ID)
}

func TestQuickBookingCreatedEvent(t *testing.T) {
	now := time.Date(2024, 10, 15, 8, 0, 0, 0, time.UTC)
	ev := NewQuickBookingCreated("h1", Booking{ID: "42", Stay: stay("2024-10-15", "2024-10-16"), Guests: 2, Total: 120}, "3", now)
	assert.Equal(t, "calendar.quick_booking_created", ev.EventName())
	assert.Equal(t, "3", ev.AggregateID())
	assert.Equal(t, "2024-10-15", ev.CheckIn)
	assert.Equal(t, "h1", ev.HotelID)
}
