package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// PathwayResponse mirrors models.Pathway but carries Geometry as a
// GeoJSON string for API output instead of raw WKB bytes.
type PathwayResponse struct {
	ID          uint                   `json:"ID"`
	CreatedAt   time.Time              `json:"CreatedAt"`
	UpdatedAt   time.Time              `json:"UpdatedAt"`
	DeletedAt   gorm.DeletedAt         `json:"DeletedAt,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Origin      string                 `json:"origin"`
	Destination string                 `json:"destination"`
	Active      bool                   `json:"active"`
	Geometry    string                 `json:"geometry"`
	Options     []models.PathwayOption `json:"options"`
}

// toPathwayResponse converts a models.Pathway to a PathwayResponse
func toPathwayResponse(pathway models.Pathway) PathwayResponse {
	jsonGeom, _ := convertWKBToGeoJSON(pathway.Geometry)
	return PathwayResponse{
		ID:          pathway.ID,
		CreatedAt:   pathway.CreatedAt,
		UpdatedAt:   pathway.UpdatedAt,
		DeletedAt:   pathway.DeletedAt,
		Name:        pathway.Name,
		Description: pathway.Description,
		Origin:      pathway.Origin,
		Destination: pathway.Destination,
		Active:      pathway.Active,
		Geometry:    jsonGeom,
		Options:     pathway.Options,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// preloadPathwayAssociations attaches options (with tolls and toll
// nodes) in their stable display order.
func preloadPathwayAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("pathway_options.sequence asc, pathway_options.id asc")
		}).
		Preload("Options.Tolls", func(db *gorm.DB) *gorm.DB {
			return db.Order("pathway_option_tolls.sequence asc")
		}).
		Preload("Options.Tolls.Node")
}

// CreatePathway registers a new pathway with an optional GeoJSON LineString.
func CreatePathway(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
		Active      *bool  `json:"active"`
		Geometry    string `json:"geometry"` // GeoJSON string
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreatePathway: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	pathway := models.Pathway{
		Name:        input.Name,
		Description: input.Description,
		Origin:      input.Origin,
		Destination: input.Destination,
		Active:      true,
		Geometry:    wkbGeom,
	}
	if input.Active != nil {
		pathway.Active = *input.Active
	}

	if err := config.DB.Create(&pathway).Error; err != nil {
		logrus.WithError(err).Error("CreatePathway: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create pathway failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pathway": toPathwayResponse(pathway)})
}

// ListPathways returns pathways with their options, paginated and
// optionally filtered by a name search.
func ListPathways(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	q := c.Query("q")

	filtered := func() *gorm.DB {
		db := config.DB.Model(&models.Pathway{})
		if q != "" {
			db = db.Where("name ILIKE ?", "%"+q+"%")
		}
		return db
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting pathways: " + err.Error()})
		return
	}

	var pathways []models.Pathway
	if err := preloadPathwayAssociations(filtered()).
		Order("pathways.id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pathways).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing pathways: " + err.Error()})
		return
	}

	responses := make([]PathwayResponse, 0, len(pathways))
	for _, p := range pathways {
		responses = append(responses, toPathwayResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"pathways": responses,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

// GetPathway returns a single pathway with options, tolls and toll nodes.
func GetPathway(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}

	var pathway models.Pathway
	if err := preloadPathwayAssociations(config.DB).First(&pathway, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pathway not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"pathway": toPathwayResponse(pathway)})
}

// UpdatePathway handles partial updates of an existing pathway.
func UpdatePathway(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("UpdatePathway: invalid pathway ID in parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}

	var existing models.Pathway
	if err := config.DB.First(&existing, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pathway not found"})
		} else {
			logrus.WithError(err).Error("UpdatePathway: database error fetching pathway")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Origin      *string `json:"origin"`
		Destination *string `json:"destination"`
		Active      *bool   `json:"active"`
		Geometry    *string `json:"geometry"` // GeoJSON string
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdatePathway: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := applyPathwayUpdates(&existing, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Save(&existing).Error; err != nil {
		logrus.WithError(err).Error("UpdatePathway: failed to save updated pathway")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pathway": toPathwayResponse(existing)})
}

// applyPathwayUpdates copies set fields from the input onto the pathway.
func applyPathwayUpdates(pathway *models.Pathway, input *struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Active      *bool   `json:"active"`
	Geometry    *string `json:"geometry"`
}) error {
	if input.Name != nil {
		pathway.Name = *input.Name
	}
	if input.Description != nil {
		pathway.Description = *input.Description
	}
	if input.Origin != nil {
		pathway.Origin = *input.Origin
	}
	if input.Destination != nil {
		pathway.Destination = *input.Destination
	}
	if input.Active != nil {
		pathway.Active = *input.Active
	}
	if input.Geometry != nil {
		if *input.Geometry == "" {
			pathway.Geometry = nil
		} else {
			wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
			if err != nil {
				return errors.New("Invalid geometry: " + err.Error())
			}
			pathway.Geometry = wkbGeom
		}
	}
	return nil
}

// DeletePathway removes a pathway together with its options and tolls.
func DeletePathway(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}

	var pathway models.Pathway
	if err := config.DB.First(&pathway, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pathway not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	if err := tx.Where("pathway_option_id IN (?)",
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.PathwayOption{}).
			Select("id").
			Where("pathway_id = ?", pathway.ID),
	).Delete(&models.PathwayOptionToll{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete option tolls: " + err.Error()})
		return
	}

	if err := tx.Where("pathway_id = ?", pathway.ID).Delete(&models.PathwayOption{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete options: " + err.Error()})
		return
	}

	if err := tx.Delete(&models.Pathway{}, pathway.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pathway: " + err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pathway deleted successfully"})
}
