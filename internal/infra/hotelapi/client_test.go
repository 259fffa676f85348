package hotelapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", Token: "secret"}, nil)
	require.NoError(t, err)
	return c
}

func d(s string) daterange.Date { return daterange.MustParse(s) }

func TestClientRooms(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/calendar/rooms", r.URL.Path)
		assert.Equal(t, "h1", r.URL.Query().Get("hotelId"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":1,"roomNumber":"101","roomTypeName":"Standard","status":"AVAILABLE","pricePerNight":"120.5"},
			{"id":"2","number":"102","type":"Deluxe","floor":3,"status":"Occupied"},
			{"roomNumber":"999"}
		]}`)
	})

	list, err := c.Rooms(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, rooms.RoomID("1"), list[0].ID)
	assert.Equal(t, "Standard", list[0].TypeName)
	assert.Equal(t, 1, list[0].Floor)
	assert.Equal(t, rooms.StatusAvailable, list[0].Status)
	assert.InDelta(t, 120.5, list[0].PricePerNight, 0.001)
	assert.Equal(t, "102", list[1].Number)
	assert.Equal(t, "Deluxe", list[1].TypeName)
	assert.Equal(t, 3, list[1].Floor)
	assert.Equal(t, rooms.StatusOccupied, list[1].Status)
}

func TestClientBookingsNormalizesAliases(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-10-13", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-10-19", r.URL.Query().Get("endDate"))
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":9,"roomInstanceId":"2","checkInDate":"2024-10-14","checkOutDate":"2024-10-17","status":"confirmed","numberOfGuests":2,"totalAmount":300},
			{"id":"10","room_id":5,"room_number":"105","check_in_date":"2024-10-15T14:00:00","check_out_date":"2024-10-16","guests":"3","totalPrice":99.5},
			{"id":"11","roomId":"7","checkIn":"2024-10-15"}
		]}`)
	})

	list, err := c.Bookings(context.Background(), "h1", d("2024-10-13"), d("2024-10-19"))
	require.NoError(t, err)
	require.Len(t, list, 3)

	first := list[0]
	assert.Equal(t, booking.BookingID("9"), first.ID)
	assert.Equal(t, "h1", first.HotelID)
	assert.Equal(t, []string{"2"}, first.RoomRefs)
	assert.Equal(t, booking.StatusConfirmed, first.Status)
	assert.Equal(t, 2, first.Guests)
	assert.Equal(t, 3, first.Nights())

	second := list[1]
	assert.Equal(t, []string{"5", "105"}, second.RoomRefs)
	assert.Equal(t, "2024-10-15", second.Stay.CheckIn.String())
	assert.Equal(t, 3, second.Guests)
	assert.InDelta(t, 99.5, second.Total, 0.001)

	assert.False(t, list[2].Dated(), "missing check-out never occupies")
	assert.False(t, list[2].Occupies(d("2024-10-15")))
}

func TestClientCreateBooking(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/calendar/bookings/quick", r.URL.Path)
		var req quickBookingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, quickBookingRequest{
			RoomInstanceID: "1",
			CheckInDate:    "2024-10-15",
			CheckOutDate:   "2024-10-16",
			GuestName:      "Ann Lee",
			NumberOfGuests: 1,
		}, req)
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":77,"status":"CONFIRMED","totalAmount":120}}`)
	})

	draft, err := booking.NewDraft(booking.DraftParams{RoomID: "1", CheckIn: d("2024-10-15"), Guest: booking.Guest{Name: "Ann Lee"}})
	require.NoError(t, err)
	b, err := c.CreateBooking(context.Background(), "h1", draft)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID("77"), b.ID)
	assert.True(t, b.References("1"))
	assert.Equal(t, draft.Stay, b.Stay)
}

func TestClientUpdateRoomStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		if r.URL.Path == "/api/calendar/rooms/404/status" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"message":"Room instance not found"}`)
			return
		}
		var req statusRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MAINTENANCE", req.Status)
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"1","status":"MAINTENANCE"}}`)
	})

	require.NoError(t, c.UpdateRoomStatus(context.Background(), "1", rooms.StatusMaintenance))
	err := c.UpdateRoomStatus(context.Background(), "404", rooms.StatusMaintenance)
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)
}

func TestClientUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"success":false,"message":"boom"}`, message: "boom"},
		{name: "plain text error", status: http.StatusBadGateway, body: `bad gateway`, message: "bad gateway"},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"message":"hotel closed"}`, message: "hotel closed"},
		{name: "garbage", status: http.StatusOK, body: `<html>`, message: "decode envelope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.Rooms(context.Background(), "h1")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstream)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c, err := New(Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.Rooms(context.Background(), "h1")
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestNewValidatesBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative"} {
		_, err := New(Config{BaseURL: raw}, nil)
		assert.Error(t, err, raw)
	}
}

func TestFlexDecoding(t *testing.T) {
	var room wireRoom
	require.NoError(t, json.Unmarshal([]byte(`{"id":12.0,"floor":"2","maxGuests":null,"pricePerNight":80}`), &room))
	assert.Equal(t, flexString("12.0"), room.ID)
	assert.Equal(t, flexInt(2), room.Floor)
	assert.Equal(t, flexInt(0), room.MaxGuests)
	assert.Equal(t, flexFloat(80), room.PricePerNight)

	assert.Error(t, json.Unmarshal([]byte(`{"floor":"two"}`), &room))
}
