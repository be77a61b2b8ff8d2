package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/models"
)

// CreateSchema registers an installation schema for a pathway
func CreateSchema(c *gin.Context) {
	var input models.InstallationSchema
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pathway models.Pathway
	if err := config.DB.First(&pathway, input.PathwayID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pathway does not exist"})
		return
	}

	if err := config.DB.Create(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create schema: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"schema": input})
}

// GetSchema retrieves an installation schema by ID
func GetSchema(c *gin.Context) {
	id := c.Param("id")
	var schema models.InstallationSchema
	if err := config.DB.First(&schema, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schema not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schema": schema})
}

// ListSchemas lists installation schemas, optionally for one pathway
func ListSchemas(c *gin.Context) {
	db := config.DB.Model(&models.InstallationSchema{})
	if pID := c.Query("pathway_id"); pID != "" {
		db = db.Where("pathway_id = ?", pID)
	}

	var schemas []models.InstallationSchema
	if err := db.Order("id asc").Find(&schemas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schemas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schemas})
}

// UpdateSchema modifies an existing installation schema
func UpdateSchema(c *gin.Context) {
	id := c.Param("id")
	var schema models.InstallationSchema
	if err := config.DB.First(&schema, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schema not found"})
		return
	}

	var input struct {
		Name          *string `json:"name"`
		VehicleCount  *int    `json:"vehicle_count"`
		TripsWeekday  *int    `json:"trips_weekday"`
		TripsSaturday *int    `json:"trips_saturday"`
		TripsSunday   *int    `json:"trips_sunday"`
		Active        *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		schema.Name = *input.Name
	}
	if input.VehicleCount != nil {
		schema.VehicleCount = *input.VehicleCount
	}
	if input.TripsWeekday != nil {
		schema.TripsWeekday = *input.TripsWeekday
	}
	if input.TripsSaturday != nil {
		schema.TripsSaturday = *input.TripsSaturday
	}
	if input.TripsSunday != nil {
		schema.TripsSunday = *input.TripsSunday
	}
	if input.Active != nil {
		schema.Active = *input.Active
	}

	config.DB.Save(&schema)
	c.JSON(http.StatusOK, gin.H{"schema": schema})
}

// DeleteSchema removes an installation schema by ID
func DeleteSchema(c *gin.Context) {
	id := c.Param("id")
	if err := config.DB.Delete(&models.InstallationSchema{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schema"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schema deleted"})
}
