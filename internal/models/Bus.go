package models

import (
	"gorm.io/gorm"
)

type Bus struct {
	gorm.Model
	FleetNo      string `json:"fleet_no"`
	Registration string `json:"registration"`
	Capacity     int    `json:"capacity"`
	InService    bool   `json:"in_service" gorm:"default:true"`
	// Current pathway assignment; zero means unassigned
	PathwayID uint `json:"pathway_id" gorm:"index"`
}
