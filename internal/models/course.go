package models

import "time"

// Course captures a stored course record. CourseType is fixed at creation by
// the factory and never mutated afterwards; it is the only metadata needed to
// re-derive the variant profile.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CourseType  string    `db:"course_type" json:"course_type"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
}

func (c *Course) EntityID() string      { return c.ID }
func (c *Course) SetEntityID(id string) { c.ID = id }

// IsActive reports whether the course is running at the given instant.
func (c Course) IsActive(now time.Time) bool {
	return !c.StartDate.After(now) && !c.EndDate.Before(now)
}

// IsUpcoming reports whether the course has not started yet.
func (c Course) IsUpcoming(now time.Time) bool {
	return c.StartDate.After(now)
}
