package hotelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomdesk/internal/app/policies"
	"roomdesk/internal/domain/booking"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

// ErrUpstream marks any failure talking to the hotel backend: transport errors,
// non-2xx replies, success=false envelopes and undecodable bodies.
var ErrUpstream = errors.New("hotelapi: upstream request failed")

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the hotel backend's calendar endpoints.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("hotelapi: base url required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("hotelapi: invalid base url %q", raw)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *Client) Rooms(ctx context.Context, hotelID string) ([]rooms.Room, error) {
	var wire []wireRoom
	q := url.Values{"hotelId": {hotelID}}
	if err := c.do(ctx, http.MethodGet, "/calendar/rooms", q, nil, &wire); err != nil {
		return nil, err
	}
	out, skipped := normalizeRooms(wire)
	if skipped > 0 && c.logger != nil {
		c.logger.Warn("rooms without id skipped", "hotel_id", hotelID, "count", skipped)
	}
	return out, nil
}

func (c *Client) Bookings(ctx context.Context, hotelID string, start, end daterange.Date) ([]booking.Booking, error) {
	var wire []wireBooking
	q := url.Values{
		"hotelId":   {hotelID},
		"startDate": {start.String()},
		"endDate":   {end.String()},
	}
	if err := c.do(ctx, http.MethodGet, "/calendar/bookings", q, nil, &wire); err != nil {
		return nil, err
	}
	return normalizeBookings(hotelID, wire), nil
}

func (c *Client) CreateBooking(ctx context.Context, hotelID string, draft booking.Draft) (booking.Booking, error) {
	req := quickBookingRequest{
		RoomInstanceID:  string(draft.RoomID),
		CheckInDate:     draft.Stay.CheckIn.String(),
		CheckOutDate:    draft.Stay.CheckOut.String(),
		GuestName:       draft.Guest.Name,
		GuestEmail:      draft.Guest.Email,
		GuestPhone:      draft.Guest.Phone,
		NumberOfGuests:  draft.Guests,
		SpecialRequests: draft.SpecialRequests,
	}
	var wire wireBooking
	if err := c.do(ctx, http.MethodPost, "/calendar/bookings/quick", nil, req, &wire); err != nil {
		return booking.Booking{}, err
	}
	b := normalizeBooking(hotelID, wire)
	b.AddRoomRef(string(draft.RoomID))
	if !b.Dated() {
		b.Stay = draft.Stay
	}
	return b, nil
}

func (c *Client) UpdateRoomStatus(ctx context.Context, roomID rooms.RoomID, status rooms.Status) error {
	path := "/calendar/rooms/" + url.PathEscape(string(roomID)) + "/status"
	err := c.do(ctx, http.MethodPut, path, nil, statusRequest{Status: status.Wire()}, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", rooms.ErrRoomNotFound, roomID)
	}
	return err
}

// StatusError is a non-2xx reply. It unwraps to ErrUpstream.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hotelapi: status %d", e.Code)
	}
	return fmt.Sprintf("hotelapi: status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logError("hotel api request failed", method, path, err)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if c.logger != nil {
		c.logger.Debug("hotel api call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = snippet(raw)
		}
		err := &StatusError{Code: resp.StatusCode, Message: msg}
		c.logError("hotel api returned error", method, path, err)
		return err
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: decode envelope: %v", ErrUpstream, decodeErr)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return fmt.Errorf("%w: %s", ErrUpstream, msg)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrUpstream, err)
	}
	return nil
}

func (c *Client) logError(msg, method, path string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "method", method, "path", path, "error", err)
	}
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

var _ policies.HotelDirectory = (*Client)(nil)
