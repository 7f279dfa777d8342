package services

import (
	"context"
	"errors"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

// Built-in lists returned when nothing is cached and the backend is out of
// reach, so the visit form can always render
var (
	defaultVisitTypes = []models.Lookup{
		{ID: 1, Kind: models.LookupVisitType, Name: "Visitor", Icon: "user"},
		{ID: 2, Kind: models.LookupVisitType, Name: "Delivery", Icon: "package"},
		{ID: 3, Kind: models.LookupVisitType, Name: "Service", Icon: "wrench", RequiresServiceType: true},
		{ID: 4, Kind: models.LookupVisitType, Name: "Taxi", Icon: "car"},
	}
	defaultServiceTypes = []models.Lookup{
		{ID: 1, Kind: models.LookupServiceType, Name: "Plumbing"},
		{ID: 2, Kind: models.LookupServiceType, Name: "Electrical"},
		{ID: 3, Kind: models.LookupServiceType, Name: "Cleaning"},
		{ID: 4, Kind: models.LookupServiceType, Name: "Maintenance"},
		{ID: 5, Kind: models.LookupServiceType, Name: "Other"},
	}
)

// cacheThenNetwork returns the cached list right away and refreshes it in
// the background. With an empty cache it waits for the backend and falls
// back to defaults.
func cacheThenNetwork[T any](
	ctx context.Context,
	s *SyncService,
	entity string,
	local func(ctx context.Context) ([]T, error),
	remote func(ctx context.Context) ([]T, error),
	save func(ctx context.Context, items []T) error,
	defaults []T,
) []T {
	ctx, span := observability.StartServiceSpan(ctx, "SyncService", "Get"+entity, observability.Entity(entity))
	defer span.End()

	cached, err := local(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("entity", entity).Error("Failed to read local cache")
		cached = nil
	}

	if len(cached) > 0 {
		if s.health.IsHealthy() {
			s.detach(entity, func(ctx context.Context) error {
				items, err := remote(ctx)
				if err != nil {
					s.remoteFailed(ctx, "refresh_"+entity, err)
					return err
				}
				return save(ctx, items)
			})
		}
		return cached
	}

	if !s.health.IsHealthy() {
		return copyOf(defaults)
	}

	items, err := remote(ctx)
	if err != nil {
		s.remoteFailed(ctx, "fetch_"+entity, err)
		observability.RecordError(span, err)
		return copyOf(defaults)
	}
	if err := save(ctx, items); err != nil {
		s.logger.WithError(err).WithField("entity", entity).Error("Failed to cache reference data")
	}
	if len(items) == 0 {
		return copyOf(defaults)
	}
	observability.SetSuccess(span)
	return items
}

func copyOf[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// scope returns the condominium for reference reads. An unconfigured device
// still gets the global lists.
func (s *SyncService) scope(ctx context.Context) (int64, bool, error) {
	condoID, err := s.devices.CondoID(ctx)
	if errors.Is(err, models.ErrDeviceNotConfigured) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return condoID, true, nil
}

func (s *SyncService) getLookups(ctx context.Context, kind models.LookupKind, defaults []models.Lookup) ([]models.Lookup, error) {
	condoID, scoped, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	if !scoped && (kind == models.LookupRestaurant || kind == models.LookupSport) {
		return []models.Lookup{}, nil
	}

	return cacheThenNetwork(ctx, s, string(kind),
		func(ctx context.Context) ([]models.Lookup, error) {
			return s.lookups.GetByKind(ctx, kind, condoID)
		},
		func(ctx context.Context) ([]models.Lookup, error) {
			return s.gateway.ListLookups(ctx, kind, condoID)
		},
		s.lookups.BulkPut,
		defaults,
	), nil
}

// GetLookups returns one configuration list by kind
func (s *SyncService) GetLookups(ctx context.Context, kind models.LookupKind) ([]models.Lookup, error) {
	switch kind {
	case models.LookupVisitType:
		return s.GetVisitTypes(ctx)
	case models.LookupServiceType:
		return s.GetServiceTypes(ctx)
	case models.LookupRestaurant:
		return s.GetRestaurants(ctx)
	case models.LookupSport:
		return s.GetSports(ctx)
	}
	return nil, models.ValidationError{Field: "kind", Message: "unknown lookup list " + string(kind)}
}

// GetVisitTypes never returns an empty list
func (s *SyncService) GetVisitTypes(ctx context.Context) ([]models.Lookup, error) {
	return s.getLookups(ctx, models.LookupVisitType, defaultVisitTypes)
}

// GetServiceTypes never returns an empty list
func (s *SyncService) GetServiceTypes(ctx context.Context) ([]models.Lookup, error) {
	return s.getLookups(ctx, models.LookupServiceType, defaultServiceTypes)
}

func (s *SyncService) GetRestaurants(ctx context.Context) ([]models.Lookup, error) {
	return s.getLookups(ctx, models.LookupRestaurant, nil)
}

func (s *SyncService) GetSports(ctx context.Context) ([]models.Lookup, error) {
	return s.getLookups(ctx, models.LookupSport, nil)
}

// GetUnits returns the unit directory of the bound condominium
func (s *SyncService) GetUnits(ctx context.Context) ([]models.Unit, error) {
	condoID, scoped, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	if !scoped {
		return []models.Unit{}, nil
	}
	return cacheThenNetwork(ctx, s, "units",
		func(ctx context.Context) ([]models.Unit, error) {
			return s.units.GetByCondo(ctx, condoID)
		},
		func(ctx context.Context) ([]models.Unit, error) {
			return s.gateway.ListUnits(ctx, condoID)
		},
		s.units.BulkPut,
		nil,
	), nil
}

// GetStaff returns the staff roster of the bound condominium
func (s *SyncService) GetStaff(ctx context.Context) ([]models.Staff, error) {
	condoID, scoped, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	if !scoped {
		return []models.Staff{}, nil
	}
	return cacheThenNetwork(ctx, s, "staff",
		func(ctx context.Context) ([]models.Staff, error) {
			return s.staff.GetByCondo(ctx, condoID)
		},
		func(ctx context.Context) ([]models.Staff, error) {
			return s.gateway.ListStaff(ctx, condoID)
		},
		s.staff.BulkPut,
		nil,
	), nil
}
