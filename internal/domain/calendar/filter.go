package calendar

import (
	"strings"

	"roomdesk/internal/domain/rooms"
)

const FilterAll = "all"

// Filter narrows the room axis. Empty fields behave like "all".
type Filter struct {
	RoomType string `json:"roomType"`
	Status   string `json:"status"`
}

func (f Filter) Identity() bool {
	return isAll(f.RoomType) && isAll(f.Status)
}

// FilterRooms keeps the rooms matching every active field. Room type is compared
// exactly, status ignoring case. The input is never modified.
func FilterRooms(in []rooms.Room, f Filter) []rooms.Room {
	if f.Identity() {
		return in
	}
	out := make([]rooms.Room, 0, len(in))
	for _, r := range in {
		if !isAll(f.RoomType) && r.TypeName != strings.TrimSpace(f.RoomType) {
			continue
		}
		if !isAll(f.Status) && !r.Status.Equal(f.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RoomTypes lists the distinct type names in first-seen order, for filter menus.
func RoomTypes(in []rooms.Room) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, r := range in {
		if r.TypeName == "" {
			continue
		}
		if _, ok := seen[r.TypeName]; ok {
			continue
		}
		seen[r.TypeName] = struct{}{}
		out = append(out, r.TypeName)
	}
	return out
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, FilterAll)
}
