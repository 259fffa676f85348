package ginserver

import (
	"errors"
	"strings"

	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/shared/daterange"
)

var errInvalidView = errors.New("calendar: view must be daily, weekly or monthly")

// parseAnchor treats an empty value as "today", which the handlers resolve.
func parseAnchor(raw string) (daterange.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return daterange.Date{}, nil
	}
	return daterange.Parse(raw)
}

func parseView(raw string) (domaincalendar.ViewMode, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domaincalendar.ViewMonthly, nil
	}
	mode := domaincalendar.ViewMode(strings.ToLower(raw))
	switch mode {
	case domaincalendar.ViewDaily, domaincalendar.ViewWeekly, domaincalendar.ViewMonthly:
		return mode, nil
	}
	return "", errInvalidView
}

type windowParams struct {
	Anchor daterange.Date
	View   domaincalendar.ViewMode
	Filter domaincalendar.Filter
}

func parseWindow(date, view, roomType, status string) (windowParams, error) {
	anchor, err := parseAnchor(date)
	if err != nil {
		return windowParams{}, err
	}
	mode, err := parseView(view)
	if err != nil {
		return windowParams{}, err
	}
	return windowParams{
		Anchor: anchor,
		View:   mode,
		Filter: domaincalendar.Filter{RoomType: strings.TrimSpace(roomType), Status: strings.TrimSpace(status)},
	}, nil
}
