package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/views"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
)

// ViewHandler exposes mounted calendar views. The view id returned by Mount is
// the handle for every other call.
type ViewHandler struct {
	Views  *views.Manager
	Logger *slog.Logger
}

type mountViewRequest struct {
	HotelID  string `json:"hotel_id"`
	Date     string `json:"date"`
	View     string `json:"view"`
	RoomType string `json:"room_type"`
	Status   string `json:"status"`
}

type changeViewRequest struct {
	HotelID  *string `json:"hotel_id"`
	Date     *string `json:"date"`
	View     *string `json:"view"`
	RoomType *string `json:"room_type"`
	Status   *string `json:"status"`
	// Step pages the window by whole views, e.g. -1 for the previous week.
	Step     int     `json:"step"`
}

type selectCellRequest struct {
	RoomID string `json:"room_id"`
	Date   string `json:"date"`
}

type viewQuickBookingRequest struct {
	CheckOut        string `json:"check_out"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests"`
}

type viewQuickBookingResponse struct {
	View    views.State `json:"view"`
	Booking dto.Booking `json:"booking"`
}

func (h ViewHandler) Mount(c *gin.Context) {
	var req mountViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := parseWindow(req.Date, req.View, req.RoomType, req.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	st, err := h.Views.Mount(c.Request.Context(), views.Params{HotelID: req.HotelID, Anchor: w.Anchor, View: w.View, Filter: w.Filter})
	if err != nil && st.ID == "" {
		respondError(c, h.Logger, err)
		return
	}
	// a failed first load still mounts; the error travels in the state
	c.JSON(http.StatusCreated, st)
}

func (h ViewHandler) Get(c *gin.Context) {
	st, err := h.Views.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Change merges the given fields over the view's current parameters.
func (h ViewHandler) Change(c *gin.Context) {
	id := c.Param("id")
	var req changeViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cur, err := h.Views.Get(id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	hotelID := pick(req.HotelID, cur.Grid.HotelID)
	w, err := parseWindow(
		pick(req.Date, cur.Grid.Anchor),
		pick(req.View, cur.Grid.View),
		pick(req.RoomType, cur.Grid.Filter.RoomType),
		pick(req.Status, cur.Grid.Filter.Status),
	)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if req.Step != 0 && !w.Anchor.IsZero() {
		w.Anchor = domaincalendar.Shift(w.Anchor, w.View, req.Step)
	}
	st, err := h.Views.Change(c.Request.Context(), id, views.Params{HotelID: hotelID, Anchor: w.Anchor, View: w.View, Filter: w.Filter})
	if err != nil && st.ID == "" {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Reload refetches the view's window. A failed fetch keeps the previous grid
// and reports the error inside the state.
func (h ViewHandler) Reload(c *gin.Context) {
	st, err := h.Views.Reload(c.Request.Context(), c.Param("id"))
	if err != nil && st.ID == "" {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h ViewHandler) Unmount(c *gin.Context) {
	if err := h.Views.Unmount(c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ViewHandler) Select(c *gin.Context) {
	var req selectCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseAnchor(req.Date)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if date.IsZero() {
		respondError(c, h.Logger, domaincalendar.ErrCellNotEligible)
		return
	}
	st, err := h.Views.Select(c.Param("id"), rooms.RoomID(req.RoomID), date)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h ViewHandler) CancelSelection(c *gin.Context) {
	st, err := h.Views.CancelSelection(c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h ViewHandler) SubmitQuickBooking(c *gin.Context) {
	var req viewQuickBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkOut, err := parseAnchor(req.CheckOut)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	_, res, err := h.Views.SubmitQuickBooking(c.Request.Context(), c.Param("id"), views.QuickBookingForm{
		CheckOut:        checkOut,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	// state after the reload
	st, err := h.Views.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, viewQuickBookingResponse{View: st, Booking: res.Booking})
}

func (h ViewHandler) UpdateRoomStatus(c *gin.Context) {
	var req roomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.Views.UpdateRoomStatus(c.Request.Context(), c.Param("id"), rooms.RoomID(c.Param("roomId")), req.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func pick(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

var _ ViewHTTP = ViewHandler{}
