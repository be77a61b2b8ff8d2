package models

import (
	"gorm.io/gorm"
)

// RollingPlan binds a bus to a pathway on a weekday rotation, so the
// fleet can be cycled across pathways over the week.
type RollingPlan struct {
	gorm.Model

	PathwayID uint `json:"pathway_id" gorm:"index"`
	BusID     uint `json:"bus_id" gorm:"index"`

	Name        string `json:"name" binding:"required"`
	WeekdayMask string `json:"weekday_mask"` // e.g. "MTWTF--"
	Rotation    int    `json:"rotation"`     // order within the plan cycle
	Active      bool   `json:"active" gorm:"default:true"`
}
