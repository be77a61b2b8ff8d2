package models

import (
	"gorm.io/gorm"
)

// PathwayOption is one alternative routing profile for a pathway: its
// own distance/time figures, pass-through behavior and toll sequence.
// At most one non-deleted option per pathway may carry IsDefault=true;
// the partial unique index ux_pathway_options_default (see
// config.InitDB) backs that invariant at the store.
type PathwayOption struct {
	gorm.Model

	PathwayID uint `json:"pathway_id" gorm:"index"`

	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	DistanceKm         float64 `json:"distance_km"`
	TypicalTimeMin     int     `json:"typical_time_min"`
	AvgSpeedKmh        float64 `json:"avg_speed_kmh"`
	IsDefault          bool    `json:"is_default"`
	IsPassThrough      bool    `json:"is_pass_through"`
	PassThroughTimeMin int     `json:"pass_through_time_min"`
	Sequence           int     `json:"sequence"`
	Active             bool    `json:"active" gorm:"default:true"`

	// Associations
	Tolls []PathwayOptionToll `gorm:"foreignKey:PathwayOptionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tolls,omitempty"`
}
