package rooms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{input: "available", want: StatusAvailable},
		{input: "AVAILABLE", want: StatusAvailable},
		{input: " Occupied ", want: StatusOccupied},
		{input: "MAINTENANCE", want: StatusMaintenance},
		{input: "blocked", want: StatusBlocked},
		{input: "cleaning", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseStatus(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStatusWire(t *testing.T) {
	assert.Equal(t, "MAINTENANCE", StatusMaintenance.Wire())
	assert.True(t, StatusBlocked.Equal("BLOCKED"))
	assert.False(t, StatusBlocked.Equal("available"))
	assert.False(t, NormalizeStatus("dirty").Known())
}

func TestNewRoomDefaults(t *testing.T) {
	room, err := NewRoom(CreateParams{ID: "12", Status: "AVAILABLE"})
	require.NoError(t, err)
	assert.Equal(t, DefaultFloor, room.Floor)
	assert.Equal(t, "12", room.Number)
	assert.Equal(t, StatusAvailable, room.Status)
	assert.True(t, room.Available())

	_, err = NewRoom(CreateParams{ID: "  "})
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestChangeStatus(t *testing.T) {
	room, err := NewRoom(CreateParams{ID: "7", Status: "available", Floor: 3})
	require.NoError(t, err)
	now := time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC)

	assert.False(t, room.ChangeStatus("h1", StatusAvailable, now))
	assert.False(t, room.HasEvents())

	assert.True(t, room.ChangeStatus("h1", StatusMaintenance, now))
	assert.Equal(t, StatusMaintenance, room.Status)
	assert.False(t, room.Available())

	pending := room.PullEvents()
	require.Len(t, pending, 1)
	ev, ok := pending[0].(RoomStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "h1", ev.HotelID)
	assert.Equal(t, StatusAvailable, ev.From)
	assert.Equal(t, StatusMaintenance, ev.To)
	assert.Equal(t, "7", ev.AggregateID())
	assert.False(t, room.HasEvents())
}

func TestCloneDropsPendingEvents(t *testing.T) {
	room, err := NewRoom(CreateParams{ID: "7", Status: "available"})
	require.NoError(t, err)
	room.ChangeStatus("h1", StatusBlocked, time.Now())

	out := Clone([]Room{*room})
	require.Len(t, out, 1)
	assert.False(t, out[0].HasEvents())
	assert.Equal(t, StatusBlocked, out[0].Status)
	assert.True(t, room.HasEvents())
}
