package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

// CourseService creates courses through the variant factory and answers the
// course catalog queries.
type CourseService struct {
	courses     courseStore
	enrollments enrollmentStore
	validator   *validator.Validate
	metrics     *Metrics
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(courses courseStore, enrollments enrollmentStore, validate *validator.Validate, metrics *Metrics, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, enrollments: enrollments, validator: validate, metrics: metrics, logger: logger}
}

// CreateCourse builds a course of the given variant and stores it.
func (s *CourseService) CreateCourse(ctx context.Context, typeTag string, base CourseBase) (*models.Course, error) {
	if err := s.validator.Struct(base); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !base.EndDate.After(base.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course end date must be after its start date")
	}

	course, err := NewCourse(typeTag, base)
	if err != nil {
		s.metrics.RecordOperation("create_course", false)
		return nil, err
	}

	if _, err := s.courses.Add(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.metrics.RecordOperation("create_course", true)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("course_type", course.CourseType))
	return course, nil
}

// GetCourseProfile returns the variant profile of a stored course.
func (s *CourseService) GetCourseProfile(ctx context.Context, id string) (*CourseProfile, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	kind, err := CourseKindOf(*course)
	if err != nil {
		return nil, err
	}
	profile := kind.Profile()
	return &profile, nil
}

// UpdateCourse replaces course fields. The course type is fixed by the
// variant at construction and may not change.
func (s *CourseService) UpdateCourse(ctx context.Context, id string, changes map[string]interface{}) (int64, error) {
	if _, ok := changes["course_type"]; ok {
		return 0, appErrors.Clone(appErrors.ErrValidation, "course type is immutable")
	}
	return s.courses.Update(ctx, id, changes)
}

// SearchCoursesByName returns courses whose name contains the query,
// case-insensitively.
func (s *CourseService) SearchCoursesByName(ctx context.Context, name string) ([]models.Course, error) {
	all, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	var out []models.Course
	for _, course := range all {
		if strings.Contains(strings.ToLower(course.Name), needle) {
			out = append(out, course)
		}
	}
	return out, nil
}

// GetCoursesByType lists courses of one variant tag.
func (s *CourseService) GetCoursesByType(ctx context.Context, typeTag string) ([]models.Course, error) {
	kind, err := KindFromTag(typeTag)
	if err != nil {
		return nil, err
	}
	return s.courses.FindBy(ctx, map[string]interface{}{"course_type": kind.Tag})
}

// GetCoursesByTeacher lists the courses owned by a teacher.
func (s *CourseService) GetCoursesByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	return s.courses.FindBy(ctx, map[string]interface{}{"teacher_id": teacherID})
}

// GetActiveCourses lists courses currently running.
func (s *CourseService) GetActiveCourses(ctx context.Context) ([]models.Course, error) {
	return s.filterCourses(ctx, func(course models.Course, now time.Time) bool {
		return course.IsActive(now)
	})
}

// GetUpcomingCourses lists courses that have not started yet.
func (s *CourseService) GetUpcomingCourses(ctx context.Context) ([]models.Course, error) {
	return s.filterCourses(ctx, func(course models.Course, now time.Time) bool {
		return course.IsUpcoming(now)
	})
}

func (s *CourseService) filterCourses(ctx context.Context, keep func(models.Course, time.Time) bool) ([]models.Course, error) {
	all, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var out []models.Course
	for _, course := range all {
		if keep(course, now) {
			out = append(out, course)
		}
	}
	return out, nil
}

// GetCoursesByStudent lists the courses a student is enrolled in.
func (s *CourseService) GetCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	enrollments, err := s.enrollments.FindBy(ctx, map[string]interface{}{"student_id": studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if len(enrollments) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.CourseID)
	}
	return s.courses.GetByIDs(ctx, ids)
}
