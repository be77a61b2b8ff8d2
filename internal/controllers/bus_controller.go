package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/models"
)

// CreateBus registers a fleet vehicle; defaults InService to true
func CreateBus(c *gin.Context) {
	var input struct {
		FleetNo      string `json:"fleet_no" binding:"required"`
		Registration string `json:"registration" binding:"required"`
		Capacity     int    `json:"capacity"`
		// InService omitted: always default true on creation
	}

	// Parse JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus input: " + err.Error()})
		return
	}

	bus := models.Bus{
		FleetNo:      input.FleetNo,
		Registration: input.Registration,
		Capacity:     input.Capacity,
		InService:    true,
	}

	// Save to DB
	if err := config.DB.Create(&bus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bus: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

// GetBus retrieves a bus by ID
func GetBus(c *gin.Context) {
	id := c.Param("id")
	var bus models.Bus
	if err := config.DB.First(&bus, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// ListBuses returns the whole fleet, optionally filtered by pathway
func ListBuses(c *gin.Context) {
	db := config.DB.Model(&models.Bus{})
	if pID := c.Query("pathway_id"); pID != "" {
		db = db.Where("pathway_id = ?", pID)
	}

	var buses []models.Bus
	if err := db.Order("id asc").Find(&buses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing buses: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": buses})
}

// UpdateBus modifies fleet number, registration, capacity or service state
func UpdateBus(c *gin.Context) {
	id := c.Param("id")

	var bus models.Bus
	if err := config.DB.First(&bus, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	var input struct {
		FleetNo      *string `json:"fleet_no"`
		Registration *string `json:"registration"`
		Capacity     *int    `json:"capacity"`
		InService    *bool   `json:"in_service"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	if input.FleetNo != nil {
		bus.FleetNo = *input.FleetNo
	}
	if input.Registration != nil {
		bus.Registration = *input.Registration
	}
	if input.Capacity != nil {
		bus.Capacity = *input.Capacity
	}
	if input.InService != nil {
		bus.InService = *input.InService
	}

	config.DB.Save(&bus)
	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// AssignBusToPathway binds a bus to a pathway (or clears the binding
// with pathway_id 0)
func AssignBusToPathway(c *gin.Context) {
	id := c.Param("id")

	var bus models.Bus
	if err := config.DB.First(&bus, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	var input struct {
		PathwayID uint `json:"pathway_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment: " + err.Error()})
		return
	}

	if input.PathwayID != 0 {
		var pathway models.Pathway
		if err := config.DB.First(&pathway, input.PathwayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Pathway not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
	}

	if err := config.DB.Model(&bus).Update("pathway_id", input.PathwayID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign bus: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// DeleteBus removes a bus from the fleet
func DeleteBus(c *gin.Context) {
	id := c.Param("id")

	var bus models.Bus
	if err := config.DB.First(&bus, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	config.DB.Delete(&bus)
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}
