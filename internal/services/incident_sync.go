package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

// GetIncidents returns the condominium's incidents. A successful backend
// fetch replaces every confirmed local incident, so incidents deleted on the
// backend disappear here too; incidents with unpushed changes are kept.
func (s *SyncService) GetIncidents(ctx context.Context) ([]models.Incident, error) {
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartServiceSpan(ctx, "SyncService", "GetIncidents", observability.CondoID(condoID))
	defer span.End()

	local, err := s.incidents.GetByCondo(ctx, condoID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("failed to read local incidents: %w", err)
	}

	if !s.health.IsHealthy() {
		sortIncidents(local)
		return local, nil
	}

	remote, err := s.gateway.ListIncidents(ctx, condoID)
	if err != nil {
		s.remoteFailed(ctx, "list_incidents", err)
		sortIncidents(local)
		return local, nil
	}

	pending := make(map[int64]models.Incident)
	for _, i := range local {
		if i.SyncStatus == models.SyncStatusPending {
			pending[i.ID.Key()] = i
		}
	}

	fresh := make([]models.Incident, 0, len(remote))
	for _, r := range remote {
		if _, ok := r.ID.Remote(); !ok {
			continue
		}
		if _, ok := pending[r.ID.Key()]; ok {
			continue
		}
		r.SyncStatus = models.SyncStatusSynced
		fresh = append(fresh, r)
	}

	if err := s.incidents.ReplaceSynced(ctx, condoID, fresh); err != nil {
		s.logger.WithError(err).WithField("condo_id", condoID).Error("Failed to cache incidents")
	}

	merged := fresh
	for _, i := range pending {
		merged = append(merged, i)
	}
	sortIncidents(merged)
	observability.SetSuccess(span)
	return merged, nil
}

// sortIncidents orders by report time, newest first
func sortIncidents(incidents []models.Incident) {
	sort.SliceStable(incidents, func(i, j int) bool {
		a, b := incidents[i], incidents[j]
		if !a.ReportedAt.Equal(b.ReportedAt) {
			return a.ReportedAt.After(b.ReportedAt)
		}
		return a.ID.Key() > b.ID.Key()
	})
}

// AcknowledgeIncident marks the incident as seen by staffID
func (s *SyncService) AcknowledgeIncident(ctx context.Context, id models.RecordID, staffID int64) (*models.Incident, error) {
	return s.updateIncident(ctx, "AcknowledgeIncident", id, func(i *models.Incident) error {
		return i.Acknowledge(staffID, s.now().UTC())
	})
}

// ReportIncidentAction records what the guard did and the resulting status
func (s *SyncService) ReportIncidentAction(ctx context.Context, id models.RecordID, notes string, status models.IncidentStatus) (*models.Incident, error) {
	return s.updateIncident(ctx, "ReportIncidentAction", id, func(i *models.Incident) error {
		return i.ReportAction(notes, status, s.now().UTC())
	})
}

// updateIncident applies change locally first and pushes it when the
// backend is reachable
func (s *SyncService) updateIncident(ctx context.Context, op string, id models.RecordID, change func(*models.Incident) error) (*models.Incident, error) {
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartServiceSpan(ctx, "SyncService", op,
		observability.CondoID(condoID), observability.RecordKey(id.Key()))
	defer span.End()

	inc, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inc == nil || inc.CondoID != condoID {
		return nil, fmt.Errorf("incident %s: %w", id, models.ErrNotFound)
	}

	if err := change(inc); err != nil {
		return nil, err
	}
	inc.SyncStatus = models.SyncStatusPending
	if err := s.incidents.Put(ctx, inc); err != nil {
		return nil, fmt.Errorf("failed to save incident: %w", err)
	}
	s.metrics.RecordLocalWrite(ctx, "incident")

	if remoteID, ok := inc.ID.Remote(); ok && s.health.IsHealthy() {
		found, err := s.gateway.UpdateIncident(ctx, remoteID, inc.Update())
		switch {
		case err != nil:
			s.remoteFailed(ctx, "update_incident", err)
		case !found:
			s.logger.WithField("record_id", remoteID).Warn("Backend does not know this incident, left for replay")
		default:
			inc.SyncStatus = models.SyncStatusSynced
			if err := s.incidents.Put(ctx, inc); err != nil {
				return nil, fmt.Errorf("failed to save incident: %w", err)
			}
			observability.SetSuccess(span)
		}
	}

	s.events.Publish(TopicIncidents, WSTypeIncidentUpdated, inc)
	return inc, nil
}
