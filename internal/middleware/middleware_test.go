package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth("kiosk-key", "X-API-Key")(okHandler)

	tests := []struct {
		name   string
		path   string
		header string
		query  string
		want   int
	}{
		{"health is public", "/health", "", "", http.StatusOK},
		{"swagger is public", "/swagger/index.html", "", "", http.StatusOK},
		{"missing key", "/api/visits", "", "", http.StatusUnauthorized},
		{"wrong key", "/api/visits", "nope", "", http.StatusUnauthorized},
		{"valid key", "/api/visits", "kiosk-key", "", http.StatusOK},
		{"websocket query key", "/ws", "", "kiosk-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.path
			if tt.query != "" {
				target += "?api_key=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("empty key disables auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		APIKeyAuth("", "X-API-Key")(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/visits", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

type scopeFunc func(ctx context.Context) (int64, error)

func (f scopeFunc) CondoID(ctx context.Context) (int64, error) { return f(ctx) }

func TestDeviceRequired(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"configured", "/api/visits", nil, http.StatusOK},
		{"unconfigured data route", "/api/visits", models.ErrDeviceNotConfigured, http.StatusServiceUnavailable},
		{"blocked data route", "/api/incidents", models.ErrDeviceBlocked, http.StatusForbidden},
		{"unconfigured device route", "/api/device/configure", models.ErrDeviceNotConfigured, http.StatusOK},
		{"blocked status route", "/api/status/online", models.ErrDeviceBlocked, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			h := DeviceRequired(scopeFunc(func(context.Context) (int64, error) { return 7, err }))(okHandler)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
