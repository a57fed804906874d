package models

import "time"

// Enrollment links one student to one course. At most one row may exist per
// (student, course) pair. Grade is absent until assigned.
type Enrollment struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
	Grade          *float64  `db:"grade" json:"grade,omitempty"`
}

func (e *Enrollment) EntityID() string      { return e.ID }
func (e *Enrollment) SetEntityID(id string) { e.ID = id }

// StudentGradeEntry is one line of a student's transcript.
type StudentGradeEntry struct {
	CourseID   string   `json:"course_id"`
	CourseName string   `json:"course_name"`
	Grade      *float64 `json:"grade,omitempty"`
}

// StudentGradesReport aggregates a student's enrollments with the mean over
// graded entries only. AverageGrade is nil when no enrollment carries a grade.
type StudentGradesReport struct {
	StudentID    string              `json:"student_id"`
	StudentName  string              `json:"student_name"`
	Grades       []StudentGradeEntry `json:"grades"`
	AverageGrade *float64            `json:"average_grade,omitempty"`
}

// CourseStudentEntry is one enrolled student on a course roster.
type CourseStudentEntry struct {
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name"`
	Grade       *float64 `json:"grade,omitempty"`
}

// CourseGradesReport aggregates a course's enrollments, symmetric to
// StudentGradesReport.
type CourseGradesReport struct {
	CourseID     string               `json:"course_id"`
	CourseName   string               `json:"course_name"`
	Students     []CourseStudentEntry `json:"students"`
	AverageGrade *float64             `json:"average_grade,omitempty"`
}
