package models

import (
	"gorm.io/gorm"
)

// InstallationSchema describes how service is installed on a pathway:
// how many buses run it and the trip counts per day class.
type InstallationSchema struct {
	gorm.Model

	PathwayID uint   `json:"pathway_id" gorm:"index"`
	Name      string `json:"name" binding:"required"`

	VehicleCount  int  `json:"vehicle_count"`
	TripsWeekday  int  `json:"trips_weekday"`
	TripsSaturday int  `json:"trips_saturday"`
	TripsSunday   int  `json:"trips_sunday"`
	Active        bool `json:"active" gorm:"default:true"`
}
