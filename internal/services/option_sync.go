package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_inventory/internal/models"
	"fleet_inventory/internal/validators"
)

// BulkSyncOptionInput is one desired option in a bulk sync payload.
// A non-zero ID targets an existing option; a zero ID means create.
// An option's absence from the payload, relative to the persisted set,
// means delete. Field names follow the frontend contract (camelCase).
//
// Tolls semantics: nil leaves the option's persisted toll list
// untouched, while a non-nil (possibly empty) slice replaces it
// wholesale. Callers constructing payloads in code must use
// []TollInput{} rather than nil when they mean "clear".
type BulkSyncOptionInput struct {
	ID                 uint        `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	DistanceKm         float64     `json:"distanceKm"`
	TypicalTimeMin     int         `json:"typicalTimeMin"`
	AvgSpeedKmh        float64     `json:"avgSpeedKmh"`
	IsDefault          bool        `json:"isDefault"`
	IsPassThrough      bool        `json:"isPassThrough"`
	PassThroughTimeMin int         `json:"passThroughTimeMin"`
	Sequence           int         `json:"sequence"`
	Active             bool        `json:"active"`
	Tolls              []TollInput `json:"tolls"`
}

// TollInput is one toll-booth stop in a bulk sync payload. Sequence is
// accepted on the wire but the array order is authoritative: rows are
// written with a fresh 1-based sequence.
type TollInput struct {
	NodeID      uint     `json:"nodeId"`
	Sequence    int      `json:"sequence"`
	PassTimeMin int      `json:"passTimeMin"`
	Distance    *float64 `json:"distance"`
}

// OptionSyncService reconciles a pathway's desired option set against
// the persisted one: it validates the payload, diffs desired versus
// current options, guards the pathway invariants and applies the
// resulting creates/updates/deletes plus toll replacements inside a
// single transaction.
type OptionSyncService struct {
	db *gorm.DB
}

func NewOptionSyncService(db *gorm.DB) *OptionSyncService {
	return &OptionSyncService{db: db}
}

// BulkSync runs one full reconciliation for the pathway and returns
// the reloaded aggregate (options and tolls included). Validation
// failures and invariant violations surface as
// *validators.ValidationError with every field error collected; a
// missing pathway surfaces as gorm.ErrRecordNotFound. Any failure
// after execution starts rolls the transaction back, leaving the
// persisted state unchanged.
func (s *OptionSyncService) BulkSync(ctx context.Context, pathwayID uint, options []BulkSyncOptionInput) (*models.Pathway, error) {
	db := s.db.WithContext(ctx)

	var pathway models.Pathway
	if err := db.First(&pathway, pathwayID).Error; err != nil {
		return nil, err
	}

	// Structural validation may read from a non-transactional snapshot;
	// every read that decides what gets written happens in-tx below.
	if err := s.validatePayload(db, pathwayID, options); err != nil {
		if isValidation(err) {
			syncRejected.WithLabelValues(stageValidation).Inc()
		}
		return nil, err
	}

	var result models.Pathway
	var applied SyncOperations

	err := db.Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent syncs against the same pathway for the
		// life of this transaction.
		if err := acquirePathwayLock(tx, pathwayID); err != nil {
			return err
		}

		var current []models.PathwayOption
		if err := tx.Where("pathway_id = ?", pathwayID).
			Order("sequence asc, id asc").
			Find(&current).Error; err != nil {
			return err
		}

		resolved := resolveDefaultOption(options, current)
		ops := categorizeOperations(resolved, current)

		if err := ensureMinimumOptionsAndDefaultPresence(&pathway, current, ops); err != nil {
			syncRejected.WithLabelValues(stageGuard).Inc()
			return err
		}

		tempToReal, err := s.executeOperations(tx, &pathway, ops)
		if err != nil {
			return err
		}
		if err := s.syncAllOptionTolls(tx, ops, tempToReal); err != nil {
			return err
		}

		applied = ops
		return reloadPathway(tx, pathwayID, &result)
	})
	if err != nil {
		if !isValidation(err) {
			syncRejected.WithLabelValues(stageExecution).Inc()
			logrus.WithError(err).WithField("pathway_id", pathwayID).Error("bulk option sync failed")
		}
		return nil, err
	}

	syncApplied.WithLabelValues(opCreated).Add(float64(len(applied.ToCreate)))
	syncApplied.WithLabelValues(opUpdated).Add(float64(len(applied.ToUpdate)))
	syncApplied.WithLabelValues(opDeleted).Add(float64(len(applied.ToDelete)))

	logrus.WithFields(logrus.Fields{
		"pathway_id": pathwayID,
		"created":    len(applied.ToCreate),
		"updated":    len(applied.ToUpdate),
		"deleted":    len(applied.ToDelete),
	}).Info("bulk option sync applied")

	return &result, nil
}

// reloadPathway fetches the post-sync aggregate inside the transaction
// so the response reflects exactly what was committed.
func reloadPathway(tx *gorm.DB, pathwayID uint, dest *models.Pathway) error {
	return tx.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence asc, id asc")
		}).
		Preload("Options.Tolls", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence asc")
		}).
		Preload("Options.Tolls.Node").
		First(dest, pathwayID).Error
}

// Pathway option syncs take a per-pathway advisory lock so two
// concurrent syncs against the same pathway cannot interleave. The
// class occupies the high 32 bits of the key and just namespaces this
// lock family; it has no meaning beyond being stable.
const pathwayOptionSyncLockClass = 4217

func pathwayLockKey(pathwayID uint) int64 {
	return int64(pathwayOptionSyncLockClass)<<32 | int64(uint32(pathwayID))
}

func acquirePathwayLock(tx *gorm.DB, pathwayID uint) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", pathwayLockKey(pathwayID)).Error
}

func isValidation(err error) bool {
	var verr *validators.ValidationError
	return errors.As(err, &verr)
}
