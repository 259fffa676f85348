package hotelapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// envelope is the hotel backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// flexString accepts a JSON string, number or null. Ids and dates arrive in
// whichever form the backend serialised them.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number, numeric string or null.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return err
	}
	*f = flexInt(int(v))
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// wireRoom is a room instance as the backend sends it. Some deployments use
// the short field names.
type wireRoom struct {
	ID            flexString `json:"id"`
	RoomTypeID    flexString `json:"roomTypeId"`
	RoomNumber    flexString `json:"roomNumber"`
	Number        flexString `json:"number"`
	Floor         flexInt    `json:"floor"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	RoomTypeName  string     `json:"roomTypeName"`
	Type          string     `json:"type"`
	PricePerNight flexFloat  `json:"pricePerNight"`
	MaxGuests     flexInt    `json:"maxGuests"`
	BedType       string     `json:"bedType"`
}

// wireBooking carries every alias the backend has used for room references and
// stay dates.
type wireBooking struct {
	ID                flexString `json:"id"`
	HotelID           flexString `json:"hotelId"`
	RoomInstanceID    flexString `json:"roomInstanceId"`
	RoomInstanceIDAlt flexString `json:"room_instance_id"`
	RoomID            flexString `json:"roomId"`
	RoomIDAlt         flexString `json:"room_id"`
	RoomNumber        flexString `json:"roomNumber"`
	RoomNumberAlt     flexString `json:"room_number"`
	RoomTypeName      string     `json:"roomTypeName"`
	CheckInDate       flexString `json:"checkInDate"`
	CheckIn           flexString `json:"checkIn"`
	CheckInDateAlt    flexString `json:"check_in_date"`
	CheckOutDate      flexString `json:"checkOutDate"`
	CheckOut          flexString `json:"checkOut"`
	CheckOutDateAlt   flexString `json:"check_out_date"`
	NumberOfGuests    flexInt    `json:"numberOfGuests"`
	Guests            flexInt    `json:"guests"`
	Status            string     `json:"status"`
	TotalAmount       flexFloat  `json:"totalAmount"`
	TotalPrice        flexFloat  `json:"totalPrice"`
	GuestName         string     `json:"guestName"`
	GuestEmail        string     `json:"guestEmail"`
	GuestPhone        string     `json:"guestPhone"`
	SpecialRequests   string     `json:"specialRequests"`
}

type quickBookingRequest struct {
	RoomInstanceID  string `json:"roomInstanceId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	GuestName       string `json:"guestName"`
	GuestEmail      string `json:"guestEmail,omitempty"`
	GuestPhone      string `json:"guestPhone,omitempty"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}
