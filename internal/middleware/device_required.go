package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

// DeviceScope reports the condominium this device is bound to
type DeviceScope interface {
	CondoID(ctx context.Context) (int64, error)
}

// DeviceRequired rejects data routes until the device is bound to a
// condominium, and all of them once an administrator has blocked it.
func DeviceRequired(devices DeviceScope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Always allow device provisioning, status and health checks
			if strings.HasPrefix(path, "/api/device") ||
				strings.HasPrefix(path, "/api/status") ||
				path == "/health" || path == "/api/health" ||
				path == "/ws" {
				next.ServeHTTP(w, r)
				return
			}

			// Always allow swagger
			if !strings.HasPrefix(path, "/api") {
				next.ServeHTTP(w, r)
				return
			}

			_, err := devices.CondoID(r.Context())
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, models.ErrDeviceBlocked):
				writeError(w, http.StatusForbidden, models.ErrDeviceBlocked.Code, models.ErrDeviceBlocked.Message)
			case errors.Is(err, models.ErrDeviceNotConfigured):
				writeError(w, http.StatusServiceUnavailable, "device_not_configured",
					"Configure this device at /api/device/configure")
			default:
				// If we can't determine the binding, let the handler decide
				observability.WithContext(r.Context()).WithError(err).Warn("Device scope check failed")
				next.ServeHTTP(w, r)
			}
		})
	}
}
