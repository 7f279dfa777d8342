package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

var (
	errVisitRejected = errors.New("backend did not store the visit")
	errPhotoRejected = errors.New("backend did not store the photo")
)

// GetTodaysVisits returns today's gate log: the backend slice merged over
// the local one when the backend is reachable, the local slice otherwise.
// Records not yet confirmed by the backend are always included.
func (s *SyncService) GetTodaysVisits(ctx context.Context) ([]models.Visit, error) {
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartServiceSpan(ctx, "SyncService", "GetTodaysVisits", observability.CondoID(condoID))
	defer span.End()

	from, to := s.todayBounds()
	local, err := s.visits.GetByCondoBetween(ctx, condoID, from, to)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("failed to read local visits: %w", err)
	}

	if !s.health.IsHealthy() {
		sortVisits(local)
		return local, nil
	}

	remote, err := s.gateway.ListVisits(ctx, condoID, from, to)
	if err != nil {
		s.remoteFailed(ctx, "list_visits", err)
		sortVisits(local)
		return local, nil
	}

	m := mergeVisits(local, remote)
	if len(m.superseded) > 0 {
		if err := s.visits.BulkDelete(ctx, m.superseded); err != nil {
			s.logger.WithError(err).Warn("Failed to drop superseded local visits")
		}
	}
	for oldID, adopted := range m.adopted {
		adopted := adopted
		if err := s.visits.Replace(ctx, oldID, &adopted); err != nil {
			s.logger.WithError(err).WithField("record_id", oldID.Key()).Warn("Failed to move local visit to its backend id")
		}
	}
	if err := s.visits.BulkPut(ctx, m.fresh); err != nil {
		s.logger.WithError(err).WithField("condo_id", condoID).Error("Failed to cache visits")
	}

	observability.SetSuccess(span)
	return m.merged, nil
}

type visitMerge struct {
	merged []models.Visit
	// backend records to cache
	fresh []models.Visit
	// temporary ids the backend already holds with nothing left to push
	superseded []models.RecordID
	// temporary id -> backend copy still carrying unpushed local changes
	adopted map[models.RecordID]models.Visit
}

// mergeVisits overlays remote on local by id. A local copy still waiting to
// be pushed wins over the backend copy. A local temporary record whose
// client reference the backend already holds moves to the backend id; it is
// dropped outright only when it has no change the backend lacks.
func mergeVisits(local, remote []models.Visit) visitMerge {
	byKey := make(map[int64]models.Visit, len(local)+len(remote))
	for _, v := range local {
		byKey[v.ID.Key()] = v
	}

	twins := make(map[string]models.Visit, len(remote))
	for _, r := range remote {
		if _, ok := r.ID.Remote(); ok && r.ClientRef != "" {
			twins[r.ClientRef] = r
		}
	}

	m := visitMerge{adopted: make(map[models.RecordID]models.Visit)}
	for _, v := range local {
		if !v.ID.IsLocal() || v.ClientRef == "" {
			continue
		}
		twin, ok := twins[v.ClientRef]
		if !ok {
			continue
		}
		delete(byKey, v.ID.Key())
		if held, ok := byKey[twin.ID.Key()]; ok && held.SyncStatus == models.SyncStatusPending {
			m.superseded = append(m.superseded, v.ID)
			continue
		}
		if !carryLocalChanges(&v, &twin) {
			m.superseded = append(m.superseded, v.ID)
			continue
		}
		twin.SyncStatus = models.SyncStatusPending
		twin.SyncAttempts = 0
		byKey[twin.ID.Key()] = twin
		m.adopted[v.ID] = twin
	}

	m.fresh = make([]models.Visit, 0, len(remote))
	for _, r := range remote {
		if _, ok := r.ID.Remote(); !ok {
			continue
		}
		if l, ok := byKey[r.ID.Key()]; ok && l.SyncStatus == models.SyncStatusPending {
			continue
		}
		r.SyncStatus = models.SyncStatusSynced
		r.PhotoData = ""
		byKey[r.ID.Key()] = r
		m.fresh = append(m.fresh, r)
	}

	m.merged = make([]models.Visit, 0, len(byKey))
	for _, v := range byKey {
		m.merged = append(m.merged, v)
	}
	sortVisits(m.merged)
	return m
}

// carryLocalChanges copies onto the backend copy of a visit what only the
// local copy holds: a status change and a photo. It reports whether the
// result still has something to push.
func carryLocalChanges(local, twin *models.Visit) bool {
	dirty := carryPhoto(local, twin)
	if local.Status != twin.Status {
		twin.Status = local.Status
		twin.CheckOutAt = local.CheckOutAt
		dirty = true
	}
	return dirty
}

// carryPhoto keeps a photo the backend copy lacks, either as the URL
// already uploaded or as inline data still to upload
func carryPhoto(local, twin *models.Visit) bool {
	if twin.ClientRef == "" {
		twin.ClientRef = local.ClientRef
	}
	twin.PhotoData = ""
	if twin.PhotoURL != "" {
		return false
	}
	switch {
	case local.PhotoURL != "":
		twin.PhotoURL = local.PhotoURL
		return true
	case local.PhotoData != "":
		twin.PhotoData = local.PhotoData
		return true
	}
	return false
}

// sortVisits orders by check-in time, newest first
func sortVisits(visits []models.Visit) {
	sort.SliceStable(visits, func(i, j int) bool {
		a, b := visits[i], visits[j]
		if !a.CheckInAt.Equal(b.CheckInAt) {
			return a.CheckInAt.After(b.CheckInAt)
		}
		return a.ID.Key() > b.ID.Key()
	})
}

// CreateVisit records a visitor arrival. When the backend is reachable the
// photo is uploaded and the visit stored remotely; otherwise, or when that
// fails, the visit is kept locally under a temporary id for replay. A photo
// that could not be uploaded stays inline on the record until replay
// delivers it.
func (s *SyncService) CreateVisit(ctx context.Context, req models.CreateVisitRequest) (*models.Visit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartServiceSpan(ctx, "SyncService", "CreateVisit", observability.CondoID(condoID))
	defer span.End()

	deviceID, err := s.devices.Identifier(ctx)
	if err != nil {
		return nil, err
	}

	v := models.NewVisit(req, condoID, deviceID, newClientRef(), s.now().UTC())
	v.PhotoData = s.photos.Prepare(v.PhotoData)

	if s.health.IsHealthy() && v.PhotoData != "" {
		if err := s.uploadVisitPhoto(ctx, v); err != nil {
			s.remoteFailed(ctx, "upload_photo", err)
		}
	}

	// a failed upload may have used up the last of the health score
	if s.health.IsHealthy() {
		created, err := s.gateway.CreateVisit(ctx, v)
		if err == nil && created == nil {
			err = errVisitRejected
		}
		if err == nil {
			created.SyncStatus = models.SyncStatusSynced
			if carryPhoto(v, created) {
				created.SyncStatus = models.SyncStatusPending
				s.logger.WithField("record_id", created.ID.Key()).Info("Visit stored, photo queued for upload")
			}
			if err := s.visits.Put(ctx, created); err != nil {
				return nil, fmt.Errorf("failed to cache visit: %w", err)
			}
			observability.SetSuccess(span)
			s.events.Publish(TopicVisits, WSTypeVisitCreated, created)
			return created, nil
		}

		s.remoteFailed(ctx, "create_visit", err)
		// the backend may have stored it before failing; replay checks first
		v.SyncAttempts = 1
	}

	v.ID = s.nextLocalID()
	v.SyncStatus = models.SyncStatusPending
	if err := s.visits.Put(ctx, v); err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("failed to save visit: %w", err)
	}
	s.metrics.RecordLocalWrite(ctx, "visit")
	s.logger.WithFields(map[string]interface{}{
		"record_id": v.ID.Key(),
		"condo_id":  condoID,
	}).Info("Visit queued for sync")

	s.events.Publish(TopicVisits, WSTypeVisitCreated, v)
	return v, nil
}

// uploadVisitPhoto swaps the inline photo for a backend URL. On failure the
// inline data is left in place.
func (s *SyncService) uploadVisitPhoto(ctx context.Context, v *models.Visit) error {
	url, err := s.gateway.UploadPhoto(ctx, v.PhotoData, v.CondoID, "visitor")
	if err != nil {
		return err
	}
	if url == "" {
		return errPhotoRejected
	}
	v.PhotoURL = url
	v.PhotoData = ""
	return nil
}

// pushVisitUpdate sends the state of a visit the backend already holds,
// uploading a photo still held inline first. Every error it returns comes
// from the backend; the caller persists the outcome.
func (s *SyncService) pushVisitUpdate(ctx context.Context, remoteID int64, v *models.Visit) (bool, error) {
	if v.PhotoPending() {
		if err := s.uploadVisitPhoto(ctx, v); err != nil {
			return false, err
		}
	}
	return s.gateway.UpdateVisit(ctx, remoteID, v.StatusUpdate())
}

// UpdateVisitStatus applies a status change locally first, then pushes it
// when the backend is reachable and the visit has a backend id
func (s *SyncService) UpdateVisitStatus(ctx context.Context, id models.RecordID, status models.VisitStatus) (*models.Visit, error) {
	condoID, err := s.devices.CondoID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartServiceSpan(ctx, "SyncService", "UpdateVisitStatus",
		observability.CondoID(condoID), observability.RecordKey(id.Key()))
	defer span.End()

	v, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil || v.CondoID != condoID {
		return nil, fmt.Errorf("visit %s: %w", id, models.ErrNotFound)
	}

	if err := v.ApplyStatus(status, s.now().UTC()); err != nil {
		return nil, err
	}
	v.SyncStatus = models.SyncStatusPending
	if err := s.visits.Put(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save visit: %w", err)
	}
	s.metrics.RecordLocalWrite(ctx, "visit")

	if remoteID, ok := v.ID.Remote(); ok && s.health.IsHealthy() {
		found, err := s.pushVisitUpdate(ctx, remoteID, v)
		switch {
		case err != nil:
			s.remoteFailed(ctx, "update_visit", err)
		case !found:
			s.logger.WithField("record_id", remoteID).Warn("Backend does not know this visit, left for replay")
		default:
			v.SyncStatus = models.SyncStatusSynced
			if err := s.visits.Put(ctx, v); err != nil {
				return nil, fmt.Errorf("failed to save visit: %w", err)
			}
			observability.SetSuccess(span)
		}
	}

	s.events.Publish(TopicVisits, WSTypeVisitUpdated, v)
	return v, nil
}
