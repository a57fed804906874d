package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

// RegisterStudentRequest describes student intake. Email must be a valid
// address, per the data model invariant.
type RegisterStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	GradeLevel string `json:"grade_level" validate:"required"`
}

// RegisterTeacherRequest describes teacher intake.
type RegisterTeacherRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Specialization string `json:"specialization" validate:"required"`
}

// DirectoryService covers student and teacher intake and lookups.
type DirectoryService struct {
	students    studentStore
	teachers    teacherStore
	courses     courseStore
	enrollments enrollmentStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDirectoryService constructs DirectoryService.
func NewDirectoryService(students studentStore, teachers teacherStore, courses courseStore, enrollments enrollmentStore, validate *validator.Validate, logger *zap.Logger) *DirectoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{students: students, teachers: teachers, courses: courses, enrollments: enrollments, validator: validate, logger: logger}
}

// RegisterStudent validates and stores a new student.
func (s *DirectoryService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{Name: req.Name, Email: req.Email, GradeLevel: req.GradeLevel, CreatedAt: time.Now().UTC()}
	if _, err := s.students.Add(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student registered", zap.String("student_id", student.ID))
	return student, nil
}

// RegisterTeacher validates and stores a new teacher.
func (s *DirectoryService) RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher := &models.Teacher{Name: req.Name, Email: req.Email, Specialization: req.Specialization, CreatedAt: time.Now().UTC()}
	if _, err := s.teachers.Add(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	s.logger.Info("teacher registered", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}

// SearchStudentsByName returns students whose name contains the query,
// case-insensitively.
func (s *DirectoryService) SearchStudentsByName(ctx context.Context, name string) ([]models.Student, error) {
	all, err := s.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	var out []models.Student
	for _, student := range all {
		if strings.Contains(strings.ToLower(student.Name), needle) {
			out = append(out, student)
		}
	}
	return out, nil
}

// GetStudentsByGradeLevel lists students of one grade level.
func (s *DirectoryService) GetStudentsByGradeLevel(ctx context.Context, gradeLevel string) ([]models.Student, error) {
	return s.students.FindBy(ctx, map[string]interface{}{"grade_level": gradeLevel})
}

// GetStudentsByCourse lists the students enrolled in a course.
func (s *DirectoryService) GetStudentsByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	enrollments, err := s.enrollments.FindBy(ctx, map[string]interface{}{"course_id": courseID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if len(enrollments) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.StudentID)
	}
	return s.students.GetByIDs(ctx, ids)
}

// SearchTeachersByName returns teachers whose name contains the query,
// case-insensitively.
func (s *DirectoryService) SearchTeachersByName(ctx context.Context, name string) ([]models.Teacher, error) {
	all, err := s.teachers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	var out []models.Teacher
	for _, teacher := range all {
		if strings.Contains(strings.ToLower(teacher.Name), needle) {
			out = append(out, teacher)
		}
	}
	return out, nil
}

// GetTeachersBySpecialization lists teachers of one specialization.
func (s *DirectoryService) GetTeachersBySpecialization(ctx context.Context, specialization string) ([]models.Teacher, error) {
	return s.teachers.FindBy(ctx, map[string]interface{}{"specialization": specialization})
}

// GetTeachersWithCourseCounts pairs every teacher with the number of courses
// referencing them.
func (s *DirectoryService) GetTeachersWithCourseCounts(ctx context.Context) ([]models.TeacherWithCourseCount, error) {
	teachers, err := s.teachers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TeacherWithCourseCount, 0, len(teachers))
	for _, teacher := range teachers {
		courses, err := s.courses.FindBy(ctx, map[string]interface{}{"teacher_id": teacher.ID})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
		}
		out = append(out, models.TeacherWithCourseCount{Teacher: teacher, CourseCount: len(courses)})
	}
	return out, nil
}
