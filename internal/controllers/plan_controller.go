package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/models"
)

// CreatePlan registers a rolling plan binding a bus to a pathway
func CreatePlan(c *gin.Context) {
	var input models.RollingPlan
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pathway models.Pathway
	if err := config.DB.First(&pathway, input.PathwayID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pathway does not exist"})
		return
	}
	var bus models.Bus
	if err := config.DB.First(&bus, input.BusID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bus does not exist"})
		return
	}

	if err := config.DB.Create(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create plan: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": input})
}

// GetPlan retrieves a rolling plan by ID
func GetPlan(c *gin.Context) {
	id := c.Param("id")
	var plan models.RollingPlan
	if err := config.DB.First(&plan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// ListPlans lists rolling plans, optionally scoped to a pathway or bus
func ListPlans(c *gin.Context) {
	db := config.DB.Model(&models.RollingPlan{})
	if pID := c.Query("pathway_id"); pID != "" {
		db = db.Where("pathway_id = ?", pID)
	}
	if bID := c.Query("bus_id"); bID != "" {
		db = db.Where("bus_id = ?", bID)
	}

	var plans []models.RollingPlan
	if err := db.Order("rotation asc, id asc").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

// UpdatePlan modifies an existing rolling plan
func UpdatePlan(c *gin.Context) {
	id := c.Param("id")
	var plan models.RollingPlan
	if err := config.DB.First(&plan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		WeekdayMask *string `json:"weekday_mask"`
		Rotation    *int    `json:"rotation"`
		Active      *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		plan.Name = *input.Name
	}
	if input.WeekdayMask != nil {
		plan.WeekdayMask = *input.WeekdayMask
	}
	if input.Rotation != nil {
		plan.Rotation = *input.Rotation
	}
	if input.Active != nil {
		plan.Active = *input.Active
	}

	config.DB.Save(&plan)
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// DeletePlan removes a rolling plan by ID
func DeletePlan(c *gin.Context) {
	id := c.Param("id")
	if err := config.DB.Delete(&models.RollingPlan{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}
