package models

import "time"

// Teacher represents an instructor.
type Teacher struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Specialization string    `db:"specialization" json:"specialization"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (t *Teacher) EntityID() string      { return t.ID }
func (t *Teacher) SetEntityID(id string) { t.ID = id }

// TeacherWithCourseCount pairs a teacher with the number of courses they own.
type TeacherWithCourseCount struct {
	Teacher
	CourseCount int `json:"course_count"`
}
