package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
	"github.com/noah-isme/school-core/pkg/cache"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

// Known service kinds, matched exactly against lowercased catalog names.
const (
	serviceKindTutoring = "tutorat"
	serviceKindSports   = "sport"
	serviceKindArts     = "art"
)

const unknownServiceName = "Unknown service"

// StudentServiceManager is the sole authority over StudentService lifecycle:
// assignment with active-uniqueness, termination, and the additive cost
// views. Catalog lookups go through a read-through cache when one is
// configured; the catalog is static so cached entries never go stale.
type StudentServiceManager struct {
	subscriptions studentServiceStore
	catalog       serviceCatalog
	students      studentReader
	cache         *cache.Repository
	cacheTTL      time.Duration
	metrics       *Metrics
	logger        *zap.Logger
}

// NewStudentServiceManager constructs the manager. cacheRepo may be nil.
func NewStudentServiceManager(subscriptions studentServiceStore, catalog serviceCatalog, students studentReader, cacheRepo *cache.Repository, cacheTTL time.Duration, metrics *Metrics, logger *zap.Logger) *StudentServiceManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentServiceManager{
		subscriptions: subscriptions,
		catalog:       catalog,
		students:      students,
		cache:         cacheRepo,
		cacheTTL:      cacheTTL,
		metrics:       metrics,
		logger:        logger,
	}
}

// GetAllServices lists the service catalog.
func (m *StudentServiceManager) GetAllServices(ctx context.Context) ([]models.Service, error) {
	return m.catalog.GetAll(ctx)
}

// AddService stores a new catalog entry.
func (m *StudentServiceManager) AddService(ctx context.Context, service *models.Service) (string, error) {
	return m.catalog.Add(ctx, service)
}

// AssignServiceToStudent subscribes a student to a catalog service, enforcing
// at most one active subscription per (student, service) pair.
func (m *StudentServiceManager) AssignServiceToStudent(ctx context.Context, studentID, serviceID string, startDate time.Time, endDate *time.Time) (*models.AssignServiceResult, error) {
	if _, err := m.students.GetByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			m.metrics.RecordOperation("assign_service", false)
			return &models.AssignServiceResult{OperationResult: models.OperationResult{Message: "student does not exist"}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := m.catalog.GetByID(ctx, serviceID); err != nil {
		if err == sql.ErrNoRows {
			m.metrics.RecordOperation("assign_service", false)
			return &models.AssignServiceResult{OperationResult: models.OperationResult{Message: "service does not exist"}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	existing, err := m.subscriptions.FindBy(ctx, map[string]interface{}{"student_id": studentID, "service_id": serviceID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subscriptions")
	}
	now := time.Now().UTC()
	for _, subscription := range existing {
		if subscription.IsActive(now) {
			m.metrics.RecordOperation("assign_service", false)
			return &models.AssignServiceResult{
				OperationResult:  models.OperationResult{Message: appErrors.ErrServiceAlreadyActive.Message},
				StudentServiceID: subscription.ID,
			}, nil
		}
	}

	subscription := &models.StudentService{StudentID: studentID, ServiceID: serviceID, StartDate: startDate, EndDate: endDate}
	id, err := m.subscriptions.Add(ctx, subscription)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscription")
	}

	m.metrics.RecordOperation("assign_service", true)
	m.logger.Info("service assigned", zap.String("student_id", studentID), zap.String("service_id", serviceID))
	return &models.AssignServiceResult{
		OperationResult:  models.OperationResult{Success: true, Message: "service assigned successfully"},
		StudentServiceID: id,
	}, nil
}

// TerminateService ends a subscription by setting its end date to now.
// Re-terminating simply moves the end date forward.
func (m *StudentServiceManager) TerminateService(ctx context.Context, studentServiceID string) (*models.OperationResult, error) {
	if _, err := m.subscriptions.GetByID(ctx, studentServiceID); err != nil {
		if err == sql.ErrNoRows {
			m.metrics.RecordOperation("terminate_service", false)
			return &models.OperationResult{Message: "student service not found"}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription")
	}

	if _, err := m.subscriptions.Update(ctx, studentServiceID, map[string]interface{}{"end_date": time.Now().UTC()}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to terminate subscription")
	}

	m.metrics.RecordOperation("terminate_service", true)
	return &models.OperationResult{Success: true, Message: "service terminated successfully"}, nil
}

// GetStudentServices partitions the student's subscriptions into active and
// historical sets.
func (m *StudentServiceManager) GetStudentServices(ctx context.Context, studentID string) (*models.StudentServicesView, error) {
	all, err := m.subscriptions.FindBy(ctx, map[string]interface{}{"student_id": studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscriptions")
	}

	now := time.Now().UTC()
	view := &models.StudentServicesView{}
	for _, subscription := range all {
		if subscription.IsActive(now) {
			view.Active = append(view.Active, subscription)
		} else {
			view.Historical = append(view.Historical, subscription)
		}
	}
	return view, nil
}

// ComposeStudent builds the composed view of a student: the base record plus
// one additive contribution per active subscription, folded in start order.
// Every contribution carries its catalog cost, so the composed total always
// agrees with CalculateServicesTotal.
func (m *StudentServiceManager) ComposeStudent(ctx context.Context, studentID string) (*models.ComposedStudent, error) {
	student, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	active, err := m.activeSubscriptions(ctx, studentID)
	if err != nil {
		return nil, err
	}

	composed := &models.ComposedStudent{Student: *student}
	for _, subscription := range active {
		service, err := m.lookupService(ctx, subscription.ServiceID)
		if err != nil {
			return nil, err
		}
		composed.Contributions = append(composed.Contributions, contributionFor(subscription.ServiceID, service))
	}
	return composed, nil
}

// CalculateServicesTotal sums the catalog cost of every active subscription.
func (m *StudentServiceManager) CalculateServicesTotal(ctx context.Context, studentID string) (*models.ServicesTotal, error) {
	student, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	active, err := m.activeSubscriptions(ctx, studentID)
	if err != nil {
		return nil, err
	}

	total := &models.ServicesTotal{StudentID: studentID, StudentName: student.Name}
	for _, subscription := range active {
		service, err := m.lookupService(ctx, subscription.ServiceID)
		if err != nil {
			return nil, err
		}
		line := models.ServiceCostLine{Name: unknownServiceName, StartDate: subscription.StartDate, EndDate: subscription.EndDate}
		if service != nil {
			line.Name = service.Name
			line.Cost = service.Cost
		}
		total.Services = append(total.Services, line)
		total.TotalCost += line.Cost
	}
	return total, nil
}

// activeSubscriptions returns the student's active subscriptions ordered by
// start date for a deterministic fold.
func (m *StudentServiceManager) activeSubscriptions(ctx context.Context, studentID string) ([]models.StudentService, error) {
	all, err := m.subscriptions.FindBy(ctx, map[string]interface{}{"student_id": studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscriptions")
	}
	now := time.Now().UTC()
	active := make([]models.StudentService, 0, len(all))
	for _, subscription := range all {
		if subscription.IsActive(now) {
			active = append(active, subscription)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].StartDate.Equal(active[j].StartDate) {
			return active[i].ID < active[j].ID
		}
		return active[i].StartDate.Before(active[j].StartDate)
	})
	return active, nil
}

// lookupService resolves a catalog entry, consulting the cache first. A nil
// service (no error) means the catalog entry was deleted.
func (m *StudentServiceManager) lookupService(ctx context.Context, serviceID string) (*models.Service, error) {
	key := "catalog:service:" + serviceID
	if m.cache != nil {
		var cached models.Service
		err := m.cache.Get(ctx, key, &cached)
		if err == nil {
			m.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		if err != appErrors.ErrCacheMiss {
			m.logger.Warn("catalog cache read failed", zap.String("service_id", serviceID), zap.Error(err))
		}
		m.metrics.RecordCacheLookup(false)
	}

	service, err := m.catalog.GetByID(ctx, serviceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, key, service, m.cacheTTL); err != nil {
			m.logger.Warn("catalog cache write failed", zap.String("service_id", serviceID), zap.Error(err))
		}
	}
	return service, nil
}

func normalizeServiceName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// contributionFor maps a catalog entry to its additive fragment. Known kinds
// get dedicated descriptions; any other active service contributes under its
// catalog name.
func contributionFor(serviceID string, service *models.Service) models.ServiceContribution {
	contribution := models.ServiceContribution{ServiceID: serviceID, Description: unknownServiceName}
	if service == nil {
		return contribution
	}
	contribution.Cost = service.Cost
	switch normalizeServiceName(service.Name) {
	case serviceKindTutoring:
		contribution.Description = "Tutoring service"
	case serviceKindSports:
		contribution.Description = "Sports activity"
	case serviceKindArts:
		contribution.Description = "Arts class"
	default:
		contribution.Description = service.Name
	}
	return contribution
}
