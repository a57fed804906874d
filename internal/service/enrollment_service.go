package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

// Placeholder names used when a referenced entity was deleted after the
// enrollment was created. Deletion does not cascade, so reports must cope
// with orphans.
const (
	unknownCourseName  = "Unknown course"
	unknownStudentName = "Unknown student"
)

// EnrollmentService is the sole authority over enrollment existence and
// grades. Expected rule violations are reported through result values so the
// caller can branch without error handling; errors are reserved for
// infrastructure failures and stale primary ids on the report getters.
type EnrollmentService struct {
	enrollments enrollmentStore
	students    studentReader
	courses     courseReader
	metrics     *Metrics
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentStore, students studentReader, courses courseReader, metrics *Metrics, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, students: students, courses: courses, metrics: metrics, logger: logger}
}

// EnrollStudent registers a student to a course, enforcing at most one
// enrollment per (student, course) pair.
func (s *EnrollmentService) EnrollStudent(ctx context.Context, studentID, courseID string) (*models.EnrollmentResult, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordOperation("enroll", false)
			return &models.EnrollmentResult{OperationResult: models.OperationResult{Message: "student does not exist"}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordOperation("enroll", false)
			return &models.EnrollmentResult{OperationResult: models.OperationResult{Message: "course does not exist"}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	existing, err := s.enrollments.FindBy(ctx, map[string]interface{}{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if len(existing) > 0 {
		s.metrics.RecordOperation("enroll", false)
		return &models.EnrollmentResult{
			OperationResult: models.OperationResult{Message: appErrors.ErrDuplicateEnrollment.Message},
			EnrollmentID:    existing[0].ID,
		}, nil
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID, EnrollmentDate: time.Now().UTC()}
	id, err := s.enrollments.Add(ctx, enrollment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.metrics.RecordOperation("enroll", true)
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("course_id", courseID))
	return &models.EnrollmentResult{
		OperationResult: models.OperationResult{Success: true, Message: "enrollment successful"},
		EnrollmentID:    id,
	}, nil
}

// UnenrollStudent removes the enrollment for the given pair.
func (s *EnrollmentService) UnenrollStudent(ctx context.Context, studentID, courseID string) (*models.OperationResult, error) {
	existing, err := s.enrollments.FindBy(ctx, map[string]interface{}{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if len(existing) == 0 {
		s.metrics.RecordOperation("unenroll", false)
		return &models.OperationResult{Message: appErrors.ErrNotEnrolled.Message}, nil
	}

	if err := s.enrollments.Delete(ctx, existing[0].ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}

	s.metrics.RecordOperation("unenroll", true)
	return &models.OperationResult{Success: true, Message: "unenrollment successful"}, nil
}

// AssignGrade sets or overwrites the grade for an existing enrollment.
// Grades live in [0, 20]; reassignment simply replaces the prior value.
func (s *EnrollmentService) AssignGrade(ctx context.Context, studentID, courseID string, grade float64) (*models.OperationResult, error) {
	if grade < 0 || grade > 20 {
		s.metrics.RecordOperation("assign_grade", false)
		return &models.OperationResult{Message: appErrors.ErrGradeOutOfRange.Message}, nil
	}

	existing, err := s.enrollments.FindBy(ctx, map[string]interface{}{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if len(existing) == 0 {
		s.metrics.RecordOperation("assign_grade", false)
		return &models.OperationResult{Message: appErrors.ErrNotEnrolled.Message}, nil
	}

	if _, err := s.enrollments.Update(ctx, existing[0].ID, map[string]interface{}{"grade": grade}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}

	s.metrics.RecordOperation("assign_grade", true)
	return &models.OperationResult{Success: true, Message: "grade assigned successfully"}, nil
}

// GetStudentGrades returns every enrollment of the student with course names
// and the mean over graded entries only. A missing student is a stale id and
// fails hard.
func (s *EnrollmentService) GetStudentGrades(ctx context.Context, studentID string) (*models.StudentGradesReport, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	enrollments, err := s.enrollments.FindBy(ctx, map[string]interface{}{"student_id": studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	courseIDs := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
	}
	courses, err := s.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	courseNames := make(map[string]string, len(courses))
	for _, course := range courses {
		courseNames[course.ID] = course.Name
	}

	report := &models.StudentGradesReport{StudentID: studentID, StudentName: student.Name}
	for _, enrollment := range enrollments {
		name, ok := courseNames[enrollment.CourseID]
		if !ok {
			name = unknownCourseName
		}
		report.Grades = append(report.Grades, models.StudentGradeEntry{
			CourseID:   enrollment.CourseID,
			CourseName: name,
			Grade:      enrollment.Grade,
		})
	}
	report.AverageGrade = meanGrade(enrollments)
	return report, nil
}

// GetCourseStudentsWithGrades returns every enrolled student of the course
// with grades, symmetric to GetStudentGrades.
func (s *EnrollmentService) GetCourseStudentsWithGrades(ctx context.Context, courseID string) (*models.CourseGradesReport, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrollments, err := s.enrollments.FindBy(ctx, map[string]interface{}{"course_id": courseID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	studentIDs := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		studentIDs = append(studentIDs, enrollment.StudentID)
	}
	students, err := s.students.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	studentNames := make(map[string]string, len(students))
	for _, st := range students {
		studentNames[st.ID] = st.Name
	}

	report := &models.CourseGradesReport{CourseID: courseID, CourseName: course.Name}
	for _, enrollment := range enrollments {
		name, ok := studentNames[enrollment.StudentID]
		if !ok {
			name = unknownStudentName
		}
		report.Students = append(report.Students, models.CourseStudentEntry{
			StudentID:   enrollment.StudentID,
			StudentName: name,
			Grade:       enrollment.Grade,
		})
	}
	report.AverageGrade = meanGrade(enrollments)
	return report, nil
}

// meanGrade averages the graded enrollments only; nil when none carry one.
func meanGrade(enrollments []models.Enrollment) *float64 {
	var sum float64
	var count int
	for _, enrollment := range enrollments {
		if enrollment.Grade != nil {
			sum += *enrollment.Grade
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}
