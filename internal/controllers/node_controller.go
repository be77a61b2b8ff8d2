package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/models"
)

// CreateNode registers a new toll-booth node
func CreateNode(c *gin.Context) {
	var input models.Node
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create node: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"node": input})
}

// GetNode retrieves a node by ID
func GetNode(c *gin.Context) {
	id := c.Param("id")
	var node models.Node
	if err := config.DB.First(&node, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"node": node})
}

// ListNodes lists nodes, paginated, with an optional name/code search
func ListNodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := c.Query("q")

	db := config.DB.Model(&models.Node{})
	if q != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count nodes"})
		return
	}

	var nodes []models.Node
	if err := db.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&nodes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch nodes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  nodes,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// UpdateNode modifies an existing node
func UpdateNode(c *gin.Context) {
	id := c.Param("id")
	var node models.Node
	if err := config.DB.First(&node, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		return
	}

	var input struct {
		Name *string  `json:"name"`
		Code *string  `json:"code"`
		Lat  *float64 `json:"lat"`
		Lng  *float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		node.Name = *input.Name
	}
	if input.Code != nil {
		node.Code = *input.Code
	}
	if input.Lat != nil {
		node.Lat = *input.Lat
	}
	if input.Lng != nil {
		node.Lng = *input.Lng
	}

	config.DB.Save(&node)
	c.JSON(http.StatusOK, gin.H{"node": node})
}

// DeleteNode removes a node unless a toll sequence still references it
func DeleteNode(c *gin.Context) {
	id := c.Param("id")

	var inUse int64
	if err := config.DB.Model(&models.PathwayOptionToll{}).Where("node_id = ?", id).Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check node usage"})
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Node is referenced by option tolls and cannot be deleted"})
		return
	}

	if err := config.DB.Delete(&models.Node{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete node"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Node deleted"})
}
