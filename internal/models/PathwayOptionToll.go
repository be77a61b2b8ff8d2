package models

import (
	"gorm.io/gorm"
)

// PathwayOptionToll is one ordered toll-booth stop on an option's
// route. The list is owned by its option as a value: whenever a bulk
// sync payload defines a toll array for an option, the persisted list
// is replaced wholesale.
type PathwayOptionToll struct {
	gorm.Model

	PathwayOptionID uint `json:"pathway_option_id" gorm:"index"`
	NodeID          uint `json:"node_id" gorm:"index"`
	Node            Node `gorm:"foreignKey:NodeID" json:"node,omitempty"`

	Sequence    int      `json:"sequence"` // 1-based position along the option
	PassTimeMin int      `json:"pass_time_min"`
	Distance    *float64 `json:"distance,omitempty"` // km from origin, optional
}
