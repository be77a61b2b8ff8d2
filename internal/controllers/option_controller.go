package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_inventory/internal/config"
	"fleet_inventory/internal/models"
	"fleet_inventory/internal/services"
	"fleet_inventory/internal/validators"
)

type bulkSyncInput struct {
	Options []services.BulkSyncOptionInput `json:"options"`
}

// BulkSyncOptions replaces a pathway's option set with the desired one
// from the payload: creates, updates, deletes and toll replacements are
// reconciled and applied in a single transaction by the sync engine.
func BulkSyncOptions(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}

	var input bulkSyncInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("BulkSyncOptions: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	svc := services.NewOptionSyncService(config.DB)
	pathway, err := svc.BulkSync(c.Request.Context(), uint(pID), input.Options)
	if err != nil {
		respondOptionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pathway": toPathwayResponse(*pathway)})
}

// respondOptionError maps engine failures onto HTTP statuses: collected
// field errors become 422, a missing pathway 404, everything else 500.
func respondOptionError(c *gin.Context, err error) {
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Errors})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pathway not found"})
		return
	}
	logrus.WithError(err).Error("option operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// CreateOption adds a single option to a pathway outside the bulk sync
// flow. The first live option of a pathway becomes the default whether
// or not the payload asks for it.
func CreateOption(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}

	var input services.BulkSyncOptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
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

	collector := &validators.Collector{}
	if input.Name == "" {
		collector.Add("name", validators.CodeRequired, "option name is required")
	}
	if err := checkTollInput(config.DB, "tolls", input.Tolls, collector); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := collector.Err(); err != nil {
		respondOptionError(c, err)
		return
	}

	var defaults int64
	if err := config.DB.Model(&models.PathwayOption{}).
		Where("pathway_id = ? AND is_default = ?", pathway.ID, true).
		Count(&defaults).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	option := optionFromInput(pathway.ID, input)

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	// Insert without the flag, then promote. The partial unique index
	// never sees two defaults that way.
	if err := tx.Create(&option).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create option failed: " + err.Error()})
		return
	}
	if input.Tolls != nil {
		if err := services.ReplaceOptionTolls(tx, option.ID, input.Tolls); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create tolls failed: " + err.Error()})
			return
		}
	}
	if input.IsDefault || defaults == 0 {
		if err := services.SetDefaultOption(tx, pathway.ID, option.ID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Set default failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	reloadOption(&option)
	c.JSON(http.StatusCreated, gin.H{"option": option})
}

// UpdateOption rewrites a single option's scalar fields, optionally
// promotes it to default, and replaces its toll list when one is sent.
func UpdateOption(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}
	oID, err := strconv.ParseUint(c.Param("optionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option ID"})
		return
	}

	var option models.PathwayOption
	if err := config.DB.Where("id = ? AND pathway_id = ?", oID, pID).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Option not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input services.BulkSyncOptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	collector := &validators.Collector{}
	if input.Name == "" {
		collector.Add("name", validators.CodeRequired, "option name is required")
	}
	if option.IsDefault && !input.IsDefault {
		collector.Add("isDefault", validators.CodeInvalidOperation,
			"cannot unset the default option; promote another option instead")
	}
	if err := checkTollInput(config.DB, "tolls", input.Tolls, collector); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := collector.Err(); err != nil {
		respondOptionError(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	updates := map[string]interface{}{
		"name":                  input.Name,
		"description":           input.Description,
		"distance_km":           input.DistanceKm,
		"typical_time_min":      input.TypicalTimeMin,
		"avg_speed_kmh":         input.AvgSpeedKmh,
		"is_pass_through":       input.IsPassThrough,
		"pass_through_time_min": input.PassThroughTimeMin,
		"sequence":              input.Sequence,
		"active":                input.Active,
	}
	if err := tx.Model(&models.PathwayOption{}).
		Where("id = ?", option.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update option failed: " + err.Error()})
		return
	}

	if input.IsDefault && !option.IsDefault {
		if err := services.SetDefaultOption(tx, option.PathwayID, option.ID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Set default failed: " + err.Error()})
			return
		}
	}

	if input.Tolls != nil {
		if err := services.ReplaceOptionTolls(tx, option.ID, input.Tolls); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update tolls failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	reloadOption(&option)
	c.JSON(http.StatusOK, gin.H{"option": option})
}

// DeleteOption removes a single non-default option. The bulk sync
// endpoint is the only way to remove a default (by promoting a
// replacement in the same request).
func DeleteOption(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pathway ID"})
		return
	}
	oID, err := strconv.ParseUint(c.Param("optionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option ID"})
		return
	}

	var option models.PathwayOption
	if err := config.DB.Where("id = ? AND pathway_id = ?", oID, pID).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Option not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var pathway models.Pathway
	if err := config.DB.First(&pathway, pID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	collector := &validators.Collector{}
	if option.IsDefault {
		collector.Add("optionId", validators.CodeCannotRemoveDefault,
			"option \""+option.Name+"\" is the default and cannot be removed directly")
	}
	var remaining int64
	if err := config.DB.Model(&models.PathwayOption{}).
		Where("pathway_id = ? AND id <> ?", pathway.ID, option.ID).
		Count(&remaining).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pathway.Active && remaining == 0 {
		collector.Add("optionId", validators.CodeInvalidOperation,
			"an active pathway must keep at least one option")
	}
	if err := collector.Err(); err != nil {
		respondOptionError(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	if err := tx.Where("pathway_option_id = ?", option.ID).Delete(&models.PathwayOptionToll{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tolls: " + err.Error()})
		return
	}
	if err := tx.Delete(&models.PathwayOption{}, option.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete option: " + err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option deleted successfully"})
}

// optionFromInput maps a payload onto a fresh model row. IsDefault is
// deliberately left false; promotion happens as a separate step.
func optionFromInput(pathwayID uint, input services.BulkSyncOptionInput) models.PathwayOption {
	return models.PathwayOption{
		PathwayID:          pathwayID,
		Name:               input.Name,
		Description:        input.Description,
		DistanceKm:         input.DistanceKm,
		TypicalTimeMin:     input.TypicalTimeMin,
		AvgSpeedKmh:        input.AvgSpeedKmh,
		IsDefault:          false,
		IsPassThrough:      input.IsPassThrough,
		PassThroughTimeMin: input.PassThroughTimeMin,
		Sequence:           input.Sequence,
		Active:             input.Active,
	}
}

// checkTollInput validates a direct (single-option) toll payload:
// duplicate and adjacency rules plus node existence.
func checkTollInput(db *gorm.DB, field string, tolls []services.TollInput, collector *validators.Collector) error {
	if len(tolls) == 0 {
		return nil
	}

	nodeIDs := make([]uint, 0, len(tolls))
	for _, t := range tolls {
		nodeIDs = append(nodeIDs, t.NodeID)
	}
	collector.AddAll(validators.CheckTollNodes(field, nodeIDs))

	unique := make([]uint, 0, len(nodeIDs))
	seen := make(map[uint]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var found []models.Node
	if err := db.Select("id").Where("id IN ?", unique).Find(&found).Error; err != nil {
		return err
	}
	if len(found) != len(unique) {
		exists := make(map[uint]struct{}, len(found))
		for _, n := range found {
			exists[n.ID] = struct{}{}
		}
		var missing []uint
		for _, id := range unique {
			if _, ok := exists[id]; !ok {
				missing = append(missing, id)
			}
		}
		collector.Add(field, validators.CodeNodesNotFound,
			"unknown toll nodes: "+validators.JoinIDs(missing))
	}
	return nil
}

// reloadOption refreshes the row with its ordered tolls for the response.
func reloadOption(option *models.PathwayOption) {
	config.DB.
		Preload("Tolls", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence asc")
		}).
		Preload("Tolls.Node").
		First(option, option.ID)
}
