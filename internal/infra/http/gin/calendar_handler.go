package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	calendarapp "roomdesk/internal/app/handlers/calendar"
	"roomdesk/internal/app/queries"
)

// CalendarHandler serves the stateless calendar endpoints. Every request
// fetches fresh data from the hotel directory.
type CalendarHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type quickBookingRequest struct {
	HotelID         string `json:"hotelId"`
	RoomInstanceID  string `json:"roomInstanceId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	GuestName       string `json:"guestName"`
	GuestEmail      string `json:"guestEmail"`
	GuestPhone      string `json:"guestPhone"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	SpecialRequests string `json:"specialRequests"`
}

type roomStatusRequest struct {
	HotelID string `json:"hotelId"`
	Status  string `json:"status"`
}

func (h CalendarHandler) Grid(c *gin.Context) {
	w, err := parseWindow(c.Query("date"), c.Query("view"), c.Query("roomType"), c.Query("status"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := calendarapp.GetGridQuery{HotelID: c.Param("id"), Anchor: w.Anchor, View: w.View, Filter: w.Filter}
	grid, err := queries.Ask[calendarapp.GetGridQuery, dto.CalendarGrid](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

func (h CalendarHandler) RoomPanel(c *gin.Context) {
	query := calendarapp.GetRoomPanelQuery{HotelID: c.Param("id")}
	panel, err := queries.Ask[calendarapp.GetRoomPanelQuery, dto.RoomPanel](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, panel)
}

func (h CalendarHandler) Availability(c *gin.Context) {
	checkIn, err := parseAnchor(c.Query("checkIn"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	checkOut, err := parseAnchor(c.Query("checkOut"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := calendarapp.CheckAvailabilityQuery{
		HotelID:  c.Query("hotelId"),
		RoomID:   c.Query("roomId"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	result, err := queries.Ask[calendarapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CalendarHandler) QuickBooking(c *gin.Context) {
	var req quickBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := calendarapp.QuickBookingCommand{
		HotelID:         req.HotelID,
		RoomID:          req.RoomInstanceID,
		CheckIn:         req.CheckInDate,
		CheckOut:        req.CheckOutDate,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		Guests:          req.NumberOfGuests,
		SpecialRequests: req.SpecialRequests,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[calendarapp.QuickBookingCommand, *dto.QuickBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h CalendarHandler) UpdateRoomStatus(c *gin.Context) {
	var req roomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := calendarapp.UpdateRoomStatusCommand{HotelID: req.HotelID, RoomID: c.Param("roomId"), Status: req.Status}
	room, err := commands.Dispatch[calendarapp.UpdateRoomStatusCommand, *dto.Room](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h CalendarHandler) Export(c *gin.Context) {
	w, err := parseWindow(c.Query("date"), c.Query("view"), c.Query("roomType"), c.Query("status"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := calendarapp.ExportCalendarCommand{HotelID: c.Param("id"), Anchor: w.Anchor, View: w.View, Filter: w.Filter}
	result, err := commands.Dispatch[calendarapp.ExportCalendarCommand, *dto.ExportResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ CalendarHTTP = CalendarHandler{}
