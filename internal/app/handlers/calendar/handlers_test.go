package calendar

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "roomdesk/internal/app/outbox"
	"roomdesk/internal/domain/booking"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

type fakeHotel struct {
	mu        sync.Mutex
	rooms     []rooms.Room
	bookings  []booking.Booking
	roomsErr  error
	bookErr   error
	createErr error
	created   []booking.Draft
	statuses  map[rooms.RoomID]rooms.Status
	windows   []domaincalendar.Window
}

func (f *fakeHotel) Rooms(context.Context, string) ([]rooms.Room, error) {
	if f.roomsErr != nil {
		return nil, f.roomsErr
	}
	return rooms.Clone(f.rooms), nil
}

func (f *fakeHotel) Bookings(_ context.Context, _ string, start, end daterange.Date) ([]booking.Booking, error) {
	f.mu.Lock()
	f.windows = append(f.windows, domaincalendar.Window{Start: start, End: end})
	f.mu.Unlock()
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return append([]booking.Booking(nil), f.bookings...), nil
}

func (f *fakeHotel) CreateBooking(_ context.Context, _ string, d booking.Draft) (booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	if f.createErr != nil {
		return booking.Booking{}, f.createErr
	}
	return booking.Booking{ID: "new-1", RoomRefs: []string{string(d.RoomID)}, Stay: d.Stay, Guests: d.Guests, Status: booking.StatusConfirmed, Guest: d.Guest}, nil
}

func (f *fakeHotel) UpdateRoomStatus(_ context.Context, id rooms.RoomID, s rooms.Status) error {
	if f.statuses == nil {
		f.statuses = map[rooms.RoomID]rooms.Status{}
	}
	f.statuses[id] = s
	return nil
}

type recordingBox struct{ records []appoutbox.EventRecord }

func (b *recordingBox) Add(_ context.Context, r appoutbox.EventRecord) error {
	b.records = append(b.records, r)
	return nil
}
func (b *recordingBox) Flush(context.Context) error { return nil }

func fixedNow() time.Time { return time.Date(2024, 10, 15, 9, 30, 0, 0, time.UTC) }

func d(s string) daterange.Date { return daterange.MustParse(s) }

func exampleHotel() *fakeHotel {
	return &fakeHotel{
		rooms: []rooms.Room{
			{ID: "1", Number: "101", TypeName: "Standard", Floor: 1, Status: rooms.StatusAvailable},
			{ID: "2", Number: "102", TypeName: "Deluxe", Floor: 1, Status: rooms.StatusOccupied},
		},
		bookings: []booking.Booking{
			{ID: "9", RoomRefs: []string{"2"}, Stay: daterange.DateRange{CheckIn: d("2024-10-14"), CheckOut: d("2024-10-17")}, Status: booking.StatusConfirmed},
		},
	}
}

func TestGetGrid(t *testing.T) {
	hotel := exampleHotel()
	h := &GetGridHandler{Hotels: hotel, Now: fixedNow}

	grid, err := h.Handle(context.Background(), GetGridQuery{HotelID: "h1", View: domaincalendar.ViewWeekly})
	require.NoError(t, err)

	assert.Equal(t, "2024-10-15", grid.Anchor)
	assert.Equal(t, "2024-10-13", grid.Start)
	assert.Equal(t, "2024-10-19", grid.End)
	assert.Equal(t, "weekly", grid.View)
	assert.Equal(t, "all", grid.Filter.RoomType)
	assert.Equal(t, []string{"Standard", "Deluxe"}, grid.RoomTypes)
	assert.Empty(t, grid.Notice)
	require.Len(t, grid.Rows, 2)
	require.Len(t, grid.Columns, 7)
	assert.True(t, grid.Columns[2].Today)

	room1, room2 := grid.Rows[0], grid.Rows[1]
	assert.True(t, room1.Cells[2].CanCreate)
	assert.Empty(t, room1.Cells[2].BookingIDs)
	assert.Equal(t, []string{"9"}, room2.Cells[2].BookingIDs)
	require.Len(t, room2.Cells[1].Blocks, 1)
	assert.Equal(t, 3, room2.Cells[1].Blocks[0].Span)

	require.Len(t, hotel.windows, 1)
	assert.Equal(t, "2024-10-13", hotel.windows[0].Start.String())
	assert.Equal(t, "2024-10-19", hotel.windows[0].End.String())
}

func TestGetGridFilterAndNotice(t *testing.T) {
	hotel := exampleHotel()
	h := &GetGridHandler{Hotels: hotel, Now: fixedNow}
	grid, err := h.Handle(context.Background(), GetGridQuery{HotelID: "h1", Anchor: d("2024-10-01"), View: "daily", Filter: domaincalendar.Filter{Status: "OCCUPIED"}})
	require.NoError(t, err)
	require.Len(t, grid.Rows, 1)
	assert.Equal(t, "2", grid.Rows[0].Room.ID)
	assert.Equal(t, []string{"Standard", "Deluxe"}, grid.RoomTypes, "types come from the unfiltered rooms")

	empty := &GetGridHandler{Hotels: &fakeHotel{}, Now: fixedNow}
	grid, err = empty.Handle(context.Background(), GetGridQuery{HotelID: "h2"})
	require.NoError(t, err)
	assert.Equal(t, "no rooms configured for this property", grid.Notice)
	assert.Len(t, grid.Columns, 31)
}

func TestGetGridFetchFailure(t *testing.T) {
	down := errors.New("connection refused")
	h := &GetGridHandler{Hotels: &fakeHotel{bookErr: down}, Now: fixedNow}
	_, err := h.Handle(context.Background(), GetGridQuery{HotelID: "h1"})
	assert.ErrorIs(t, err, down)

	h = &GetGridHandler{Now: fixedNow}
	_, err = h.Handle(context.Background(), GetGridQuery{HotelID: "h1"})
	assert.ErrorIs(t, err, ErrDirectoryRequired)
}

func TestRoomPanel(t *testing.T) {
	hotel := exampleHotel()
	hotel.bookings = append(hotel.bookings, booking.Booking{ID: "10", RoomRefs: []string{"1"}, Stay: daterange.DateRange{CheckIn: d("2024-10-15"), CheckOut: d("2024-10-16")}})
	h := &GetRoomPanelHandler{Hotels: hotel, Now: fixedNow}

	panel, err := h.Handle(context.Background(), GetRoomPanelQuery{HotelID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, 2, panel.Counts.Total)
	assert.Equal(t, 1, panel.Counts.Available)
	require.Len(t, panel.Activity.CheckIns, 1)
	assert.Equal(t, "10", panel.Activity.CheckIns[0].ID)
	assert.Len(t, panel.Activity.CurrentGuests, 2)
	require.Len(t, panel.Floors, 1)
	assert.Len(t, panel.Floors[0].Rooms, 2)
	assert.Equal(t, "2024-10-15", hotel.windows[0].Start.String())
}

func TestCheckAvailability(t *testing.T) {
	h := &CheckAvailabilityHandler{Hotels: exampleHotel()}
	res, err := h.Handle(context.Background(), CheckAvailabilityQuery{HotelID: "h1", RoomID: "2", CheckIn: d("2024-10-16"), CheckOut: d("2024-10-18")})
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.Conflicts, 1)

	res, err = h.Handle(context.Background(), CheckAvailabilityQuery{HotelID: "h1", RoomID: "2", CheckIn: d("2024-10-17"), CheckOut: d("2024-10-18")})
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = h.Handle(context.Background(), CheckAvailabilityQuery{HotelID: "h1", RoomID: "2", CheckIn: d("2024-10-17"), CheckOut: d("2024-10-17")})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestQuickBooking(t *testing.T) {
	hotel := exampleHotel()
	box := &recordingBox{}
	h := &QuickBookingHandler{Hotels: hotel, Outbox: box, Now: fixedNow}

	res, err := h.Handle(context.Background(), QuickBookingCommand{HotelID: "h1", RoomID: "1", CheckIn: "2024-10-15", GuestName: "Ann Lee"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", res.Booking.ID)
	require.Len(t, hotel.created, 1)
	assert.Equal(t, rooms.RoomID("1"), hotel.created[0].RoomID)
	assert.Equal(t, "2024-10-16", hotel.created[0].Stay.CheckOut.String())
	assert.Equal(t, 1, hotel.created[0].Guests)

	require.Len(t, box.records, 1)
	assert.Equal(t, "calendar.quick_booking_created", box.records[0].Name)
	assert.Equal(t, "1", box.records[0].Aggregate)
}

func TestQuickBookingRejectsConflictsAndBadInput(t *testing.T) {
	hotel := exampleHotel()
	h := &QuickBookingHandler{Hotels: hotel, Now: fixedNow}

	_, err := h.Handle(context.Background(), QuickBookingCommand{HotelID: "h1", RoomID: "2", CheckIn: "2024-10-15", GuestName: "Ann"})
	assert.ErrorIs(t, err, ErrRoomUnavailable)

	_, err = h.Handle(context.Background(), QuickBookingCommand{HotelID: "h1", RoomID: "1", CheckIn: "2024-10-15", CheckOut: "2024-10-14", GuestName: "Ann"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = h.Handle(context.Background(), QuickBookingCommand{HotelID: "h1", RoomID: "1", CheckIn: "soon", GuestName: "Ann"})
	assert.ErrorIs(t, err, daterange.ErrInvalidDate)

	assert.Empty(t, hotel.created)
}

func TestQuickBookingUpstreamFailure(t *testing.T) {
	fail := errors.New("upstream said no")
	hotel := exampleHotel()
	hotel.createErr = fail
	box := &recordingBox{}
	h := &QuickBookingHandler{Hotels: hotel, Outbox: box, Now: fixedNow}

	_, err := h.Handle(context.Background(), QuickBookingCommand{HotelID: "h1", RoomID: "1", CheckIn: "2024-10-15", GuestName: "Ann"})
	assert.ErrorIs(t, err, fail)
	assert.Len(t, hotel.created, 1, "create is attempted exactly once")
	assert.Empty(t, box.records)
}

type brokenBox struct{ adds int }

func (b *brokenBox) Add(context.Context, appoutbox.EventRecord) error {
	b.adds++
	return errors.New("mongo down")
}
func (b *brokenBox) Flush(context.Context) error { return nil }

func TestCommandsSucceedWhenEventStorageFails(t *testing.T) {
	hotel := exampleHotel()
	box := &brokenBox{}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	booker := &QuickBookingHandler{Hotels: hotel, Outbox: box, Now: fixedNow, Logger: logger}
	res, err := booker.Handle(context.Background(), QuickBookingCommand{HotelID: "h1", RoomID: "1", CheckIn: "2024-10-15", GuestName: "Ann"})
	require.NoError(t, err, "the backend already holds the booking")
	assert.Equal(t, "new-1", res.Booking.ID)
	assert.Len(t, hotel.created, 1)

	status := &UpdateRoomStatusHandler{Hotels: hotel, Outbox: box, Now: fixedNow, Logger: logger}
	room, err := status.Handle(context.Background(), UpdateRoomStatusCommand{HotelID: "h1", RoomID: "1", Status: "blocked"})
	require.NoError(t, err)
	assert.Equal(t, "blocked", room.Status)

	assert.Equal(t, 2, box.adds)
	assert.Contains(t, logs.String(), "calendar.quick_booking_created")
	assert.Contains(t, logs.String(), "calendar.room_status_changed")
	assert.Contains(t, logs.String(), "mongo down")
}

func TestUpdateRoomStatus(t *testing.T) {
	hotel := exampleHotel()
	box := &recordingBox{}
	h := &UpdateRoomStatusHandler{Hotels: hotel, Outbox: box, Now: fixedNow}

	room, err := h.Handle(context.Background(), UpdateRoomStatusCommand{HotelID: "h1", RoomID: "1", Status: "MAINTENANCE"})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", room.Status)
	assert.Equal(t, rooms.StatusMaintenance, hotel.statuses["1"])
	require.Len(t, box.records, 1)
	assert.Equal(t, "calendar.room_status_changed", box.records[0].Name)
	assert.Contains(t, string(box.records[0].Payload), `"hotel_id":"h1"`)

	_, err = h.Handle(context.Background(), UpdateRoomStatusCommand{HotelID: "h1", RoomID: "2", Status: "occupied"})
	require.NoError(t, err)
	assert.Len(t, box.records, 1, "an unchanged status records nothing")

	_, err = h.Handle(context.Background(), UpdateRoomStatusCommand{HotelID: "h1", RoomID: "1", Status: "dirty"})
	assert.ErrorIs(t, err, rooms.ErrInvalidStatus)

	_, err = h.Handle(context.Background(), UpdateRoomStatusCommand{HotelID: "h1", RoomID: "404", Status: "blocked"})
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)
}

type memExports struct {
	key  string
	body []byte
}

func (m *memExports) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.key, m.body = key, body
	return "http://exports.local/" + key, nil
}

func TestExportCalendar(t *testing.T) {
	hotel := exampleHotel()
	hotel.rooms = append(hotel.rooms, rooms.Room{ID: "3", Number: "103", Floor: 1, Status: rooms.StatusMaintenance})
	store := &memExports{}
	h := &ExportCalendarHandler{Hotels: hotel, Exports: store, Now: fixedNow}

	res, err := h.Handle(context.Background(), ExportCalendarCommand{HotelID: "h1", View: domaincalendar.ViewWeekly})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.True(t, strings.HasPrefix(res.Key, "exports/h1/weekly-2024-10-13-"))
	assert.Equal(t, "http://exports.local/"+res.Key, res.URL)

	records, err := csv.NewReader(strings.NewReader(string(store.body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"room", "type", "floor", "status", "2024-10-13"}, records[0][:5])
	assert.Equal(t, "", records[1][6])
	assert.Equal(t, "9", records[2][6])
	assert.Equal(t, "OCCUPIED", records[2][4+6])
	assert.Equal(t, "MAINTENANCE", records[3][4])

	_, err = (&ExportCalendarHandler{Hotels: hotel}).Handle(context.Background(), ExportCalendarCommand{HotelID: "h1"})
	assert.ErrorIs(t, err, ErrExportUnavailable)
}
