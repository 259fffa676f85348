package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/outbox"
	"roomdesk/internal/infra/config"
	"roomdesk/internal/infra/obs"
)

type AuthHTTP interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type CalendarHTTP interface {
	Grid(c *gin.Context)
	RoomPanel(c *gin.Context)
	Availability(c *gin.Context)
	QuickBooking(c *gin.Context)
	UpdateRoomStatus(c *gin.Context)
	Export(c *gin.Context)
}

type ViewHTTP interface {
	Mount(c *gin.Context)
	Get(c *gin.Context)
	Change(c *gin.Context)
	Reload(c *gin.Context)
	Unmount(c *gin.Context)
	Select(c *gin.Context)
	CancelSelection(c *gin.Context)
	SubmitQuickBooking(c *gin.Context)
	UpdateRoomStatus(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Calendar       CalendarHTTP
	Views          ViewHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(eventHeaders)
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}

	secured := api.Group("", requireSession)
	if h.Calendar != nil {
		secured.GET("/properties/:id/calendar", h.Calendar.Grid)
		secured.GET("/properties/:id/rooms/status", h.Calendar.RoomPanel)
		secured.POST("/properties/:id/calendar/export", h.Calendar.Export)
		secured.GET("/calendar/availability", h.Calendar.Availability)
		secured.POST("/calendar/bookings/quick", h.Calendar.QuickBooking)
		secured.PUT("/calendar/rooms/:roomId/status", h.Calendar.UpdateRoomStatus)
	}
	if h.Views != nil {
		views := secured.Group("/views")
		views.POST("", h.Views.Mount)
		views.GET("/:id", h.Views.Get)
		views.PATCH("/:id", h.Views.Change)
		views.DELETE("/:id", h.Views.Unmount)
		views.POST("/:id/reload", h.Views.Reload)
		views.POST("/:id/selection", h.Views.Select)
		views.DELETE("/:id/selection", h.Views.CancelSelection)
		views.POST("/:id/quick-booking", h.Views.SubmitQuickBooking)
		views.PUT("/:id/rooms/:roomId/status", h.Views.UpdateRoomStatus)
	}

	return router
}

// eventHeaders stamps outbox records created by this request with its id.
func eventHeaders(c *gin.Context) {
	if id := obs.RequestIDFromContext(c.Request.Context()); id != "" {
		ctx := outbox.WithHeaders(c.Request.Context(), map[string]string{"request_id": id})
		c.Request = c.Request.WithContext(ctx)
	}
	c.Next()
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", obs.RequestIDHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
