package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	calendarapp "roomdesk/internal/app/handlers/calendar"
	"roomdesk/internal/app/middleware"
	authsvc "roomdesk/internal/app/services/auth"
	"roomdesk/internal/app/views"
	domainauth "roomdesk/internal/domain/auth"
	"roomdesk/internal/domain/booking"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
	"roomdesk/internal/infra/hotelapi"
	"roomdesk/internal/infra/storage/memory"
	"roomdesk/internal/infra/validation"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, views.ErrViewNotFound),
		errors.Is(err, rooms.ErrRoomNotFound),
		errors.Is(err, memory.ErrHotelNotFound):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, errInvalidView),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domaincalendar.ErrCellNotEligible),
		errors.Is(err, domaincalendar.ErrNoSelection),
		errors.Is(err, domaincalendar.ErrSelectionActive),
		errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, booking.ErrGuestRequired),
		errors.Is(err, rooms.ErrInvalidStatus),
		errors.Is(err, rooms.ErrIDRequired),
		errors.Is(err, views.ErrHotelRequired):
		return http.StatusBadRequest
	case errors.Is(err, calendarapp.ErrRoomUnavailable):
		return http.StatusConflict
	case errors.Is(err, hotelapi.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, middleware.ErrUnauthenticated),
		errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, domainauth.ErrSessionExpired),
		errors.Is(err, domainauth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, middleware.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, calendarapp.ErrExportUnavailable),
		errors.Is(err, views.ErrManagerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}; validation failures also list the fields.
// Internal errors are logged and hidden from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"error": err.Error(), "fields": verr.Fields})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
