package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
)

// Per-table store aliases bind table names, insert columns and the indexed
// columns equality lookups may use.

type StudentStore = Store[models.Student, *models.Student]

func NewStudentStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *StudentStore {
	return NewStore[models.Student, *models.Student](db, "students",
		[]string{"id", "name", "email", "grade_level", "created_at"},
		[]string{"email", "grade_level"},
		logger, observer)
}

type TeacherStore = Store[models.Teacher, *models.Teacher]

func NewTeacherStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *TeacherStore {
	return NewStore[models.Teacher, *models.Teacher](db, "teachers",
		[]string{"id", "name", "email", "specialization", "created_at"},
		[]string{"email", "specialization"},
		logger, observer)
}

type CourseStore = Store[models.Course, *models.Course]

func NewCourseStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *CourseStore {
	return NewStore[models.Course, *models.Course](db, "courses",
		[]string{"id", "name", "description", "course_type", "start_date", "end_date", "teacher_id"},
		[]string{"course_type", "teacher_id"},
		logger, observer)
}

type EnrollmentStore = Store[models.Enrollment, *models.Enrollment]

func NewEnrollmentStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *EnrollmentStore {
	return NewStore[models.Enrollment, *models.Enrollment](db, "enrollments",
		[]string{"id", "student_id", "course_id", "enrollment_date", "grade"},
		[]string{"student_id", "course_id"},
		logger, observer)
}

type ResourceStore = Store[models.Resource, *models.Resource]

func NewResourceStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *ResourceStore {
	return NewStore[models.Resource, *models.Resource](db, "resources",
		[]string{"id", "name", "type", "status", "last_reservation_date"},
		[]string{"status"},
		logger, observer)
}

type ServiceStore = Store[models.Service, *models.Service]

func NewServiceStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *ServiceStore {
	return NewStore[models.Service, *models.Service](db, "services",
		[]string{"id", "name", "description", "cost"},
		[]string{"name"},
		logger, observer)
}

type StudentServiceStore = Store[models.StudentService, *models.StudentService]

func NewStudentServiceStore(db *sqlx.DB, logger *zap.Logger, observer QueryObserver) *StudentServiceStore {
	return NewStore[models.StudentService, *models.StudentService](db, "student_services",
		[]string{"id", "student_id", "service_id", "start_date", "end_date"},
		[]string{"student_id", "service_id"},
		logger, observer)
}
