package services

import (
	"context"
	"errors"
	"time"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/repository"
)

// remoteError marks a replay step that failed on the backend side, as
// opposed to a local storage failure
type remoteError struct {
	err error
}

func (e *remoteError) Error() string { return e.err.Error() }
func (e *remoteError) Unwrap() error { return e.err }

func remoteFailure(err error) error {
	return &remoteError{err: err}
}

// SyncPendingItems pushes queued records to the backend, visits first, and
// returns how many were confirmed. Within each entity type the first failure
// ends that type's pass. A call made while another pass runs returns 0.
func (s *SyncService) SyncPendingItems(ctx context.Context) (int, error) {
	if !s.replayMu.TryLock() {
		return 0, nil
	}
	defer s.replayMu.Unlock()

	if !s.health.IsHealthy() {
		return 0, nil
	}
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		s.logger.WithError(err).Debug("Replay skipped, no condominium scope")
		return 0, nil
	}

	ctx, span := observability.StartServiceSpan(ctx, "SyncService", "SyncPendingItems", observability.CondoID(condoID))
	defer span.End()
	start := time.Now()

	visits, err := s.replayVisits(ctx, condoID)
	if err != nil {
		observability.RecordError(span, err)
		return visits, err
	}
	incidents, err := s.replayIncidents(ctx, condoID)
	synced := visits + incidents
	if err != nil {
		observability.RecordError(span, err)
		return synced, err
	}

	s.metrics.RecordReplayed(ctx, "visit", visits)
	s.metrics.RecordReplayed(ctx, "incident", incidents)

	if synced > 0 {
		if err := s.settings.Set(ctx, repository.SettingLastSyncAt, s.now().UTC().Format(time.RFC3339)); err != nil {
			s.logger.WithError(err).Warn("Failed to record last sync time")
		}
		pending, _ := s.PendingCount(ctx)
		s.logger.WithFields(map[string]interface{}{
			"visits":    visits,
			"incidents": incidents,
			"pending":   pending,
			"duration":  time.Since(start).Round(time.Millisecond).String(),
		}).Info("Replayed pending records")
		s.events.Publish(TopicSync, WSTypeSyncCompleted, SyncCompletedPayload{Synced: synced, Pending: pending})
	}
	observability.SetSuccess(span)
	return synced, nil
}

// LastSyncAt returns when a replay pass last confirmed something
func (s *SyncService) LastSyncAt(ctx context.Context) (*time.Time, error) {
	raw, err := s.settings.Get(ctx, repository.SettingLastSyncAt)
	if err != nil || raw == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, nil
	}
	return &t, nil
}

// replayVisits drains the visit queue. Only local storage errors are
// returned; a backend failure just ends the pass.
func (s *SyncService) replayVisits(ctx context.Context, condoID int64) (int, error) {
	pending, err := s.visits.GetPending(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range pending {
		v := &pending[i]
		if v.CondoID != condoID {
			continue
		}

		var ok bool
		if _, isRemote := v.ID.Remote(); isRemote {
			ok, err = s.replayVisitUpdate(ctx, v)
		} else {
			ok, err = s.replayVisitCreate(ctx, v)
		}
		var re *remoteError
		if errors.As(err, &re) {
			s.remoteFailed(ctx, "replay_visit", re.err)
			break
		}
		if err != nil {
			return synced, err
		}
		if ok {
			synced++
		}
	}
	return synced, nil
}

// replayVisitCreate pushes a visit that only exists locally. A visit that
// was already pushed once is first looked up by its client reference, so a
// push whose response got lost is never stored twice.
func (s *SyncService) replayVisitCreate(ctx context.Context, v *models.Visit) (bool, error) {
	oldID := v.ID

	if v.SyncAttempts > 0 && v.ClientRef != "" {
		twin, err := s.gateway.FindVisitByClientRef(ctx, v.ClientRef)
		if err != nil {
			return false, remoteFailure(err)
		}
		if twin != nil {
			if _, ok := twin.ID.Remote(); ok {
				// changes made while the first push was unanswered ride on top
				return s.confirmVisit(ctx, oldID, twin, carryLocalChanges(v, twin))
			}
		}
	}

	if v.PhotoPending() {
		if err := s.uploadVisitPhoto(ctx, v); err != nil {
			return false, remoteFailure(err)
		}
	}

	v.SyncAttempts++
	if err := s.visits.Put(ctx, v); err != nil {
		return false, err
	}

	created, err := s.gateway.CreateVisit(ctx, v)
	if err != nil {
		return false, remoteFailure(err)
	}
	if created == nil {
		s.logger.WithFields(map[string]interface{}{
			"record_id":     v.ID.Key(),
			"client_ref":    v.ClientRef,
			"sync_attempts": v.SyncAttempts,
		}).Warn("Backend rejected queued visit, holding the queue")
		return false, remoteFailure(errVisitRejected)
	}
	return s.confirmVisit(ctx, oldID, created, carryPhoto(v, created))
}

// confirmVisit moves a visit to its backend id. When the local copy held
// changes the backend copy lacks, they are pushed right away.
func (s *SyncService) confirmVisit(ctx context.Context, oldID models.RecordID, confirmed *models.Visit, dirty bool) (bool, error) {
	confirmed.SyncStatus = models.SyncStatusSynced
	if dirty {
		confirmed.SyncStatus = models.SyncStatusPending
	}
	confirmed.SyncAttempts = 0
	if err := s.visits.Replace(ctx, oldID, confirmed); err != nil {
		return false, err
	}
	s.logger.WithFields(map[string]interface{}{
		"old_record_id": oldID.Key(),
		"record_id":     confirmed.ID.Key(),
		"dirty":         dirty,
	}).Debug("Visit confirmed by backend")
	s.events.Publish(TopicVisits, WSTypeVisitUpdated, confirmed)

	if dirty {
		return s.replayVisitUpdate(ctx, confirmed)
	}
	return true, nil
}

// replayVisitUpdate pushes a change to a visit the backend already holds.
// A visit the backend no longer knows is dropped locally.
func (s *SyncService) replayVisitUpdate(ctx context.Context, v *models.Visit) (bool, error) {
	remoteID, _ := v.ID.Remote()
	found, err := s.pushVisitUpdate(ctx, remoteID, v)
	if err != nil {
		return false, remoteFailure(err)
	}
	if !found {
		s.logger.WithField("record_id", remoteID).Warn("Visit deleted on the backend, dropping local change")
		return false, s.visits.Delete(ctx, v.ID)
	}
	v.SyncStatus = models.SyncStatusSynced
	if err := s.visits.Put(ctx, v); err != nil {
		return false, err
	}
	s.events.Publish(TopicVisits, WSTypeVisitUpdated, v)
	return true, nil
}

// replayIncidents drains the incident queue. Incidents are reported by
// residents, so every queued incident is a local change to a backend record.
func (s *SyncService) replayIncidents(ctx context.Context, condoID int64) (int, error) {
	pending, err := s.incidents.GetPending(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range pending {
		inc := &pending[i]
		if inc.CondoID != condoID {
			continue
		}
		remoteID, ok := inc.ID.Remote()
		if !ok {
			s.logger.WithField("record_id", inc.ID.Key()).Warn("Skipping incident without a backend id")
			continue
		}

		found, err := s.gateway.UpdateIncident(ctx, remoteID, inc.Update())
		if err != nil {
			s.remoteFailed(ctx, "replay_incident", err)
			break
		}
		if !found {
			s.logger.WithField("record_id", remoteID).Warn("Incident deleted on the backend, dropping local change")
			if err := s.incidents.Delete(ctx, inc.ID); err != nil {
				return synced, err
			}
			continue
		}

		inc.SyncStatus = models.SyncStatusSynced
		if err := s.incidents.Put(ctx, inc); err != nil {
			return synced, err
		}
		s.events.Publish(TopicIncidents, WSTypeIncidentUpdated, inc)
		synced++
	}
	return synced, nil
}
