package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fleet_inventory/internal/models"
)

// executeOperations applies the categorized operations in an order
// that can never trip the single-default unique index:
//
//  1. insert new options, always with is_default=false;
//  2. update surviving options, never touching is_default;
//  3. flip the default flag to the resolved winner (clearing the
//     previous holder first);
//  4. delete the non-default options scheduled for removal;
//  5. delete the previously-default option last, once the new default
//     is in place, so readers never observe a defaultless pathway.
//
// Returns the temp-id to real-id mapping for the toll sync step.
// Creates are inserted in payload order and their real ids are taken
// from the returned rows in the same order, so no field-matching
// heuristics are needed.
func (s *OptionSyncService) executeOperations(tx *gorm.DB, pathway *models.Pathway, ops SyncOperations) (map[int]uint, error) {
	tempToReal := make(map[int]uint, len(ops.ToCreate))

	for _, op := range ops.ToCreate {
		option := models.PathwayOption{
			PathwayID:          pathway.ID,
			Name:               op.Input.Name,
			Description:        op.Input.Description,
			DistanceKm:         op.Input.DistanceKm,
			TypicalTimeMin:     op.Input.TypicalTimeMin,
			AvgSpeedKmh:        op.Input.AvgSpeedKmh,
			IsDefault:          false,
			IsPassThrough:      op.Input.IsPassThrough,
			PassThroughTimeMin: op.Input.PassThroughTimeMin,
			Sequence:           op.Input.Sequence,
			Active:             op.Input.Active,
		}
		if err := tx.Create(&option).Error; err != nil {
			return nil, fmt.Errorf("create option %q: %w", op.Input.Name, err)
		}
		tempToReal[op.TempID] = option.ID
	}

	for _, op := range ops.ToUpdate {
		// Map form so zero values (cleared description, active=false)
		// are written; is_default is deliberately absent.
		updates := map[string]interface{}{
			"name":                  op.Input.Name,
			"description":           op.Input.Description,
			"distance_km":           op.Input.DistanceKm,
			"typical_time_min":      op.Input.TypicalTimeMin,
			"avg_speed_kmh":         op.Input.AvgSpeedKmh,
			"is_pass_through":       op.Input.IsPassThrough,
			"pass_through_time_min": op.Input.PassThroughTimeMin,
			"sequence":              op.Input.Sequence,
			"active":                op.Input.Active,
		}
		if err := tx.Model(&models.PathwayOption{}).
			Where("id = ? AND pathway_id = ?", op.OptionID, pathway.ID).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update option %d: %w", op.OptionID, err)
		}
	}

	defaultID, ok := resolveDefaultTarget(ops, tempToReal)
	if !ok {
		// The resolver and guard admit no payload without a winner;
		// reaching this is a programming error, not a user error.
		return nil, errors.New("no default option resolved for pathway")
	}
	if err := SetDefaultOption(tx, pathway.ID, defaultID); err != nil {
		return nil, err
	}

	var previousDefault *models.PathwayOption
	for i := range ops.ToDelete {
		if ops.ToDelete[i].IsDefault {
			previousDefault = &ops.ToDelete[i]
			continue
		}
		if err := deleteOption(tx, &ops.ToDelete[i]); err != nil {
			return nil, err
		}
	}
	if previousDefault != nil {
		if err := deleteOption(tx, previousDefault); err != nil {
			return nil, err
		}
	}

	return tempToReal, nil
}

// resolveDefaultTarget finds the real id of the option the resolver
// crowned: either an updated option carrying the flag, or a created
// one through its temp-id mapping.
func resolveDefaultTarget(ops SyncOperations, tempToReal map[int]uint) (uint, bool) {
	for _, op := range ops.ToUpdate {
		if op.Input.IsDefault {
			return op.OptionID, true
		}
	}
	for _, op := range ops.ToCreate {
		if !op.Input.IsDefault {
			continue
		}
		if id, ok := tempToReal[op.TempID]; ok {
			return id, true
		}
	}
	return 0, false
}

// SetDefaultOption moves the default flag to the given option in two
// steps, previous holder cleared first, so the partial unique index on
// (pathway_id) WHERE is_default never sees two defaults. Must run
// inside the caller's transaction.
func SetDefaultOption(tx *gorm.DB, pathwayID, optionID uint) error {
	if err := tx.Model(&models.PathwayOption{}).
		Where("pathway_id = ? AND is_default = ? AND id <> ?", pathwayID, true, optionID).
		Update("is_default", false).Error; err != nil {
		return fmt.Errorf("clear previous default: %w", err)
	}
	if err := tx.Model(&models.PathwayOption{}).
		Where("id = ? AND pathway_id = ?", optionID, pathwayID).
		Update("is_default", true).Error; err != nil {
		return fmt.Errorf("set default option %d: %w", optionID, err)
	}
	return nil
}

func deleteOption(tx *gorm.DB, option *models.PathwayOption) error {
	if err := tx.Where("pathway_option_id = ?", option.ID).
		Delete(&models.PathwayOptionToll{}).Error; err != nil {
		return fmt.Errorf("delete tolls of option %d: %w", option.ID, err)
	}
	if err := tx.Delete(&models.PathwayOption{}, option.ID).Error; err != nil {
		return fmt.Errorf("delete option %d: %w", option.ID, err)
	}
	return nil
}

// syncAllOptionTolls replaces the toll list of every option whose
// payload defined one. nil means keep, an empty slice means clear.
// Updates resolve to their own id; creates resolve through the temp-id
// mapping produced by executeOperations.
func (s *OptionSyncService) syncAllOptionTolls(tx *gorm.DB, ops SyncOperations, tempToReal map[int]uint) error {
	for _, op := range ops.ToUpdate {
		if op.Input.Tolls == nil {
			continue
		}
		if err := ReplaceOptionTolls(tx, op.OptionID, op.Input.Tolls); err != nil {
			return err
		}
	}
	for _, op := range ops.ToCreate {
		if op.Input.Tolls == nil {
			continue
		}
		realID, ok := tempToReal[op.TempID]
		if !ok {
			return fmt.Errorf("no persisted id recorded for pending option %d", op.TempID)
		}
		if err := ReplaceOptionTolls(tx, realID, op.Input.Tolls); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceOptionTolls drops the option's persisted toll rows and writes
// the given list in its place; the array order becomes the new 1-based
// sequence. Must run inside the caller's transaction.
func ReplaceOptionTolls(tx *gorm.DB, optionID uint, tolls []TollInput) error {
	if err := tx.Where("pathway_option_id = ?", optionID).
		Delete(&models.PathwayOptionToll{}).Error; err != nil {
		return fmt.Errorf("clear tolls of option %d: %w", optionID, err)
	}
	if len(tolls) == 0 {
		return nil
	}

	rows := make([]models.PathwayOptionToll, len(tolls))
	for i, t := range tolls {
		rows[i] = models.PathwayOptionToll{
			PathwayOptionID: optionID,
			NodeID:          t.NodeID,
			Sequence:        i + 1,
			PassTimeMin:     t.PassTimeMin,
			Distance:        t.Distance,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("write tolls of option %d: %w", optionID, err)
	}
	return nil
}
