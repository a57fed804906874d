package models

import "time"

// Service is a static catalog entry for an extra-curricular offering.
type Service struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Cost        float64 `db:"cost" json:"cost"`
}

func (s *Service) EntityID() string      { return s.ID }
func (s *Service) SetEntityID(id string) { s.ID = id }

// StudentService is a time-bounded subscription of a student to a catalog
// service. It is active while EndDate is absent or has not passed.
type StudentService struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"student_id"`
	ServiceID string     `db:"service_id" json:"service_id"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
}

func (s *StudentService) EntityID() string      { return s.ID }
func (s *StudentService) SetEntityID(id string) { s.ID = id }

// IsActive reports whether the subscription is active at the given instant.
func (s StudentService) IsActive(now time.Time) bool {
	return s.EndDate == nil || !s.EndDate.Before(now)
}

// StudentServicesView partitions a student's subscriptions.
type StudentServicesView struct {
	Active     []StudentService `json:"active"`
	Historical []StudentService `json:"historical"`
}

// ServiceCostLine details one active subscription in a cost total.
type ServiceCostLine struct {
	Name      string     `json:"name"`
	Cost      float64    `json:"cost"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ServicesTotal is the cost summary for a student's active subscriptions.
type ServicesTotal struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Services    []ServiceCostLine `json:"services"`
	TotalCost   float64           `json:"total_cost"`
}
