package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	GradeLevel string    `db:"grade_level" json:"grade_level"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (s *Student) EntityID() string      { return s.ID }
func (s *Student) SetEntityID(id string) { s.ID = id }

// ComposedStudent is the read model of a student together with the additive
// contributions of their currently active services. Contributions are folded
// in assignment order, base first.
type ComposedStudent struct {
	Student       Student               `json:"student"`
	Contributions []ServiceContribution `json:"contributions"`
}

// ServiceContribution is one additive description/cost fragment.
type ServiceContribution struct {
	ServiceID   string  `json:"service_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// Description concatenates the base fragment and every contribution.
func (c ComposedStudent) Description() string {
	out := "Eleve : " + c.Student.Name + ", Niveau: " + c.Student.GradeLevel
	for _, contrib := range c.Contributions {
		out += ", " + contrib.Description
	}
	return out
}

// Cost sums every contribution over a zero base cost.
func (c ComposedStudent) Cost() float64 {
	var total float64
	for _, contrib := range c.Contributions {
		total += contrib.Cost
	}
	return total
}
