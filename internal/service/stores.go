package service

import (
	"context"

	"github.com/noah-isme/school-core/internal/models"
	"github.com/noah-isme/school-core/internal/repository"
)

// Narrow store contracts the services depend on, satisfied by the generic
// repository stores.

type studentReader interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Student, error)
}

type studentStore interface {
	studentReader
	GetAll(ctx context.Context) ([]models.Student, error)
	FindBy(ctx context.Context, filters map[string]interface{}) ([]models.Student, error)
	Add(ctx context.Context, item *models.Student) (string, error)
}

type courseReader interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

type courseStore interface {
	courseReader
	GetAll(ctx context.Context) ([]models.Course, error)
	FindBy(ctx context.Context, filters map[string]interface{}) ([]models.Course, error)
	Add(ctx context.Context, item *models.Course) (string, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (int64, error)
}

type teacherStore interface {
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	GetAll(ctx context.Context) ([]models.Teacher, error)
	FindBy(ctx context.Context, filters map[string]interface{}) ([]models.Teacher, error)
	Add(ctx context.Context, item *models.Teacher) (string, error)
}

type enrollmentStore interface {
	FindBy(ctx context.Context, filters map[string]interface{}) ([]models.Enrollment, error)
	Add(ctx context.Context, item *models.Enrollment) (string, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) error
}

type resourceStore interface {
	GetAll(ctx context.Context) ([]models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	FindBy(ctx context.Context, filters map[string]interface{}) ([]models.Resource, error)
	Add(ctx context.Context, item *models.Resource) (string, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id string) error
	GetPaginated(ctx context.Context, page, pageSize int) (*repository.Page[models.Resource], error)
}

type serviceCatalog interface {
	GetAll(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
	Add(ctx context.Context, item *models.Service) (string, error)
}

type studentServiceStore interface {
	GetByID(ctx context.Context, id string) (*models.StudentService, error)
	FindBy(ctx context.Context, filters map[string]interface{}) ([]models.StudentService, error)
	Add(ctx context.Context, item *models.StudentService) (string, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (int64, error)
}
