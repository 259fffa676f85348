package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", slog.LevelInfo)
	m := Middleware{Logger: logger}

	r := gin.New()
	r.Use(m.RequestID(), m.AccessLog())
	var seen string
	r.GET("/ping/:id", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping/1", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", seen)
	assert.Contains(t, buf.String(), `"path":"/ping/:id"`)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/2", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		code   int
	}{
		{name: "no checks", code: http.StatusOK},
		{name: "healthy", checks: []Check{{Name: "redis", Ping: func(context.Context) error { return nil }}}, code: http.StatusOK},
		{name: "failing", checks: []Check{{Name: "mongo", Ping: func(context.Context) error { return errors.New("down") }}}, code: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := HealthHandlers{Checks: tt.checks}
			r.GET("/readyz", h.Readyz)
			r.GET("/livez", h.Livez)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			require.Equal(t, tt.code, w.Code)

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestNewLoggerDevUsesTint(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "dev", slog.LevelInfo).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"msg"`)
}
