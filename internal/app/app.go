package app

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/repository"
	"github.com/noah-isme/school-core/internal/service"
	"github.com/noah-isme/school-core/pkg/cache"
	"github.com/noah-isme/school-core/pkg/config"
	"github.com/noah-isme/school-core/pkg/database"
)

// App is the composition root handed to the UI layer. It wires config,
// store clients and services; the caller owns process lifecycle and any
// transport it mounts on top.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB      *sqlx.DB
	Cache   *cache.Repository
	Metrics *service.Metrics

	Directory       *service.DirectoryService
	Courses         *service.CourseService
	Enrollments     *service.EnrollmentService
	Resources       *service.ResourceService
	StudentServices *service.StudentServiceManager
	Exports         *service.ExportService
}

// New builds the application graph from configuration. Redis is optional;
// when disabled the catalog cache degrades to direct store reads.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, err
	}

	var cacheRepo *cache.Repository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		cacheRepo = cache.NewRepository(client, logger)
	}

	metrics := service.NewMetrics()
	validate := validator.New()

	students := repository.NewStudentStore(db, logger, metrics)
	teachers := repository.NewTeacherStore(db, logger, metrics)
	courses := repository.NewCourseStore(db, logger, metrics)
	enrollments := repository.NewEnrollmentStore(db, logger, metrics)
	resources := repository.NewResourceStore(db, logger, metrics)
	catalog := repository.NewServiceStore(db, logger, metrics)
	subscriptions := repository.NewStudentServiceStore(db, logger, metrics)

	enrollmentService := service.NewEnrollmentService(enrollments, students, courses, metrics, logger)

	return &App{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Cache:           cacheRepo,
		Metrics:         metrics,
		Directory:       service.NewDirectoryService(students, teachers, courses, enrollments, validate, logger),
		Courses:         service.NewCourseService(courses, enrollments, validate, metrics, logger),
		Enrollments:     enrollmentService,
		Resources:       service.NewResourceService(resources, metrics, logger),
		StudentServices: service.NewStudentServiceManager(subscriptions, catalog, students, cacheRepo, cfg.Catalog.CacheTTL, metrics, logger),
		Exports:         service.NewExportService(enrollmentService, logger),
	}, nil
}

// Close releases the store clients.
func (a *App) Close() error {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
