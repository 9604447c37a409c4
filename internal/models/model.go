package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultModel is the base model for all models of the budget tracker.
//
// IDs are generated by the database in insertion order, which is the order
// used for keyset pagination.
type DefaultModel struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement" example:"42"`    // ID of the resource
	CreatedAt time.Time `json:"createdAt" example:"2022-04-02T19:28:44.491514Z"`    // Time the resource was created
	UpdatedAt time.Time `json:"lastModified" example:"2022-04-17T20:14:01.048145Z"` // Last time the resource was modified
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)

	return nil
}
