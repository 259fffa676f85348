package memory

import (
	"math"

	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

// quote charges the nightly rate for every night, at least one, rounded to cents.
func quote(r rooms.Room, stay daterange.DateRange) float64 {
	nights := stay.Nights()
	if nights < 1 {
		nights = 1
	}
	return math.Round(r.PricePerNight*float64(nights)*100) / 100
}
