package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantDB     string
	}{
		{"store reachable", nil, http.StatusOK, "ok"},
		{"store down", errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health/ready", ReadinessCheck(pingerFunc(func(context.Context) error { return tt.pingErr })))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"database":"`+tt.wantDB+`"`)
			assert.NotContains(t, w.Body.String(), "10.0.0.5")
		})
	}
}
