package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Set groups the UI-facing handlers so they can be mounted together
type Set struct {
	Health    *HealthHandler
	Status    *StatusHandler
	Visits    *VisitHandler
	Incidents *IncidentHandler
	Sync      *SyncHandler
	Auth      *AuthHandler
	Device    *DeviceHandler
	Reference *ReferenceHandler
	WebSocket *WebSocketHandler
}

// Mount registers every route on r
func (s *Set) Mount(r chi.Router) {
	r.Get("/health", s.Health.HealthCheck)
	r.Get("/api/health", s.Health.HealthCheck)

	r.Route("/api/status", func(r chi.Router) {
		r.Get("/online", s.Status.Online)
		r.Post("/connectivity", s.Status.Connectivity)
	})

	r.Route("/api/visits", func(r chi.Router) {
		r.Get("/today", s.Visits.Today)
		r.Post("/", s.Visits.Create)
		r.Patch("/{id}/status", s.Visits.UpdateStatus)
	})

	r.Route("/api/incidents", func(r chi.Router) {
		r.Get("/", s.Incidents.List)
		r.Post("/{id}/acknowledge", s.Incidents.Acknowledge)
		r.Post("/{id}/action", s.Incidents.Action)
	})

	r.Post("/api/sync", s.Sync.Sync)
	r.Get("/api/sync/status", s.Sync.Status)

	r.Post("/api/auth/login", s.Auth.Login)

	r.Route("/api/device", func(r chi.Router) {
		r.Get("/configured", s.Device.Configured)
		r.Get("/condominium", s.Device.Condominium)
		r.Post("/configure", s.Device.Configure)
		r.Post("/reset", s.Device.Reset)
	})

	r.Get("/api/lookups/{kind}", s.Reference.Lookups)
	r.Get("/api/units", s.Reference.Units)
	r.Get("/api/staff", s.Reference.Staff)

	if s.WebSocket != nil {
		r.Get("/ws", s.WebSocket.HandleConnection)
	}
}
