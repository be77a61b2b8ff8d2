package models

import (
	"gorm.io/gorm"
)

// Pathway represents a named route between two points in the network.
// A pathway owns alternative route options; exactly one non-deleted
// option is flagged as the default at any time.
type Pathway struct {
	gorm.Model

	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Active      bool   `json:"active" gorm:"default:true"`

	// Geometry stored in PostGIS as a LINESTRING (SRID 4326).
	// The API exchanges GeoJSON; controllers convert to/from WKB.
	Geometry []byte `gorm:"type:bytea"`

	// Associations
	Options []PathwayOption `gorm:"foreignKey:PathwayID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options,omitempty"`
}
