package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
	"github.com/noah-isme/school-core/internal/repository"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

// ResourceService enforces the reservation state machine and is the sole
// authority over Resource.status. It holds no state beyond the store
// reference; every call re-queries, so concurrent callers must serialize per
// resource id.
type ResourceService struct {
	resources resourceStore
	metrics   *Metrics
	logger    *zap.Logger
}

// NewResourceService constructs ResourceService with an injected store.
func NewResourceService(resources resourceStore, metrics *Metrics, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{resources: resources, metrics: metrics, logger: logger}
}

// GetAllResources returns every resource.
func (s *ResourceService) GetAllResources(ctx context.Context) ([]models.Resource, error) {
	return s.resources.GetAll(ctx)
}

// GetResourceByID returns one resource or a typed not-found error.
func (s *ResourceService) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	return resource, nil
}

// GetAvailableResources lists resources currently in the available state.
func (s *ResourceService) GetAvailableResources(ctx context.Context) ([]models.Resource, error) {
	return s.resources.FindBy(ctx, map[string]interface{}{"status": models.ResourceStatusAvailable})
}

// ListResources returns one page of resources.
func (s *ResourceService) ListResources(ctx context.Context, page, pageSize int) (*repository.Page[models.Resource], error) {
	return s.resources.GetPaginated(ctx, page, pageSize)
}

// AddResource stores a new resource. New resources start available unless a
// status is supplied.
func (s *ResourceService) AddResource(ctx context.Context, resource *models.Resource) (string, error) {
	if resource.Status == "" {
		resource.Status = models.ResourceStatusAvailable
	}
	return s.resources.Add(ctx, resource)
}

// UpdateResource applies direct field changes, bypassing the state machine.
// This is the documented escape hatch for taking a resource out of
// maintenance.
func (s *ResourceService) UpdateResource(ctx context.Context, id string, changes map[string]interface{}) (int64, error) {
	return s.resources.Update(ctx, id, changes)
}

// DeleteResource removes a resource.
func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	return s.resources.Delete(ctx, id)
}

// Reserve moves an available resource to inUse and records the reservation
// time. Any other starting state returns false without mutation.
func (s *ResourceService) Reserve(ctx context.Context, id string) (bool, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordOperation("reserve", false)
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	if resource.Status != models.ResourceStatusAvailable {
		s.metrics.RecordOperation("reserve", false)
		return false, nil
	}

	changes := map[string]interface{}{
		"status":                models.ResourceStatusInUse,
		"last_reservation_date": time.Now().UTC(),
	}
	if _, err := s.resources.Update(ctx, id, changes); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve resource")
	}

	s.metrics.RecordOperation("reserve", true)
	s.logger.Info("resource reserved", zap.String("resource_id", id))
	return true, nil
}

// Release moves an inUse resource back to available. Any other starting
// state returns false without mutation.
func (s *ResourceService) Release(ctx context.Context, id string) (bool, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordOperation("release", false)
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	if resource.Status != models.ResourceStatusInUse {
		s.metrics.RecordOperation("release", false)
		return false, nil
	}

	if _, err := s.resources.Update(ctx, id, map[string]interface{}{"status": models.ResourceStatusAvailable}); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release resource")
	}

	s.metrics.RecordOperation("release", true)
	return true, nil
}

// SetMaintenance moves a resource to maintenance from any state, including
// maintenance itself. It fails only when the resource does not exist. No
// transition leads out of maintenance; see UpdateResource.
func (s *ResourceService) SetMaintenance(ctx context.Context, id string) (bool, error) {
	if _, err := s.resources.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordOperation("set_maintenance", false)
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}

	if _, err := s.resources.Update(ctx, id, map[string]interface{}{"status": models.ResourceStatusMaintenance}); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set maintenance")
	}

	s.metrics.RecordOperation("set_maintenance", true)
	return true, nil
}

// GetResourceStats counts resources per state with a full table scan.
func (s *ResourceService) GetResourceStats(ctx context.Context) (*models.ResourceStats, error) {
	all, err := s.resources.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}

	stats := &models.ResourceStats{Total: len(all)}
	for _, resource := range all {
		switch resource.Status {
		case models.ResourceStatusAvailable:
			stats.Available++
		case models.ResourceStatusInUse:
			stats.InUse++
		case models.ResourceStatusMaintenance:
			stats.Maintenance++
		}
	}
	return stats, nil
}
