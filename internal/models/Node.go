package models

import (
	"gorm.io/gorm"
)

// Node represents a toll booth location that pathway options pass
// through, with optional geographic coordinates.
type Node struct {
	gorm.Model

	Name string  `json:"name" binding:"required"`
	Code string  `json:"code" gorm:"index"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}
