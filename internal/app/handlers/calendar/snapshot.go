package calendar

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"roomdesk/internal/app/policies"
	"roomdesk/internal/domain/booking"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
)

var (
	ErrDirectoryRequired = errors.New("calendar: hotel directory required")
	ErrRoomUnavailable   = errors.New("calendar: room is not available for these dates")
)

// Snapshot is everything fetched for one (property, window).
type Snapshot struct {
	Rooms    []rooms.Room
	Bookings []booking.Booking
}

func (s Snapshot) Empty() bool { return len(s.Rooms) == 0 }

// Fetch loads rooms and bookings concurrently and waits for both. Either failure
// fails the whole snapshot.
func Fetch(ctx context.Context, hotels policies.HotelDirectory, hotelID string, window domaincalendar.Window) (Snapshot, error) {
	if hotels == nil {
		return Snapshot{}, ErrDirectoryRequired
	}
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := hotels.Rooms(gctx, hotelID)
		if err != nil {
			return fmt.Errorf("fetch rooms: %w", err)
		}
		snap.Rooms = list
		return nil
	})
	g.Go(func() error {
		list, err := hotels.Bookings(gctx, hotelID, window.Start, window.End)
		if err != nil {
			return fmt.Errorf("fetch bookings: %w", err)
		}
		snap.Bookings = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
