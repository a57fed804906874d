package models

import "time"

// ResourceStatus is one of three mutually exclusive resource states.
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "available"
	ResourceStatusInUse       ResourceStatus = "inUse"
	ResourceStatusMaintenance ResourceStatus = "maintenance"
)

// Resource is a reservable physical asset.
type Resource struct {
	ID                  string         `db:"id" json:"id"`
	Name                string         `db:"name" json:"name"`
	Type                string         `db:"type" json:"type"`
	Status              ResourceStatus `db:"status" json:"status"`
	LastReservationDate *time.Time     `db:"last_reservation_date" json:"last_reservation_date,omitempty"`
}

func (r *Resource) EntityID() string      { return r.ID }
func (r *Resource) SetEntityID(id string) { r.ID = id }

// ResourceStats counts resources per state.
type ResourceStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	InUse       int `json:"in_use"`
	Maintenance int `json:"maintenance"`
}
