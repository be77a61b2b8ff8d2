package services

import (
	"fmt"

	"fleet_inventory/internal/models"
	"fleet_inventory/internal/validators"
)

// CreateOperation is a desired option that has no persisted row yet.
// TempID correlates it with its toll list and with default resolution
// until the insert produces a real id; it is process-local and never
// persisted.
type CreateOperation struct {
	TempID int
	Input  BulkSyncOptionInput
}

// UpdateOperation targets an existing option row.
type UpdateOperation struct {
	OptionID uint
	Input    BulkSyncOptionInput
}

// SyncOperations is the categorized diff between the desired and the
// persisted option sets.
type SyncOperations struct {
	ToCreate []CreateOperation
	ToUpdate []UpdateOperation
	ToDelete []models.PathwayOption
}

// resolveDefaultOption returns a copy of the input list with exactly
// one default resolved, when a winner can be determined:
//
//  1. an option explicitly flagged default wins;
//  2. otherwise the current default keeps its flag if it is still in
//     the list;
//  3. otherwise, when the current default is being deleted without an
//     explicit replacement, the list is returned as-is; promoting an
//     arbitrary option is a business decision, so the guard rejects
//     the payload instead;
//  4. otherwise (no current default, first-time population) the first
//     option in the list becomes default.
//
// The caller's slice is never mutated.
func resolveDefaultOption(options []BulkSyncOptionInput, current []models.PathwayOption) []BulkSyncOptionInput {
	resolved := make([]BulkSyncOptionInput, len(options))
	copy(resolved, options)

	explicit := -1
	for i := range resolved {
		if resolved[i].IsDefault {
			explicit = i
			break
		}
	}
	if explicit >= 0 {
		markSingleDefault(resolved, explicit)
		return resolved
	}

	if currentDefault := findDefault(current); currentDefault != nil {
		for i := range resolved {
			if resolved[i].ID == currentDefault.ID {
				markSingleDefault(resolved, i)
				return resolved
			}
		}
		// Current default is scheduled for deletion and nothing was
		// nominated to replace it; leave that to the guard.
		return resolved
	}

	if len(resolved) > 0 {
		markSingleDefault(resolved, 0)
	}
	return resolved
}

func markSingleDefault(options []BulkSyncOptionInput, idx int) {
	for i := range options {
		options[i].IsDefault = i == idx
	}
}

func findDefault(options []models.PathwayOption) *models.PathwayOption {
	for i := range options {
		if options[i].IsDefault {
			return &options[i]
		}
	}
	return nil
}

// categorizeOperations diffs the desired option list against the
// persisted one. Inputs carrying an id become updates, inputs without
// one become creates (numbered from 1 in payload order), and persisted
// options missing from the payload become deletes. Pure diff: no I/O,
// no mutation of either argument.
func categorizeOperations(options []BulkSyncOptionInput, current []models.PathwayOption) SyncOperations {
	var ops SyncOperations

	keepIDs := make(map[uint]bool, len(options))
	nextTempID := 1
	for _, o := range options {
		if o.ID != 0 {
			keepIDs[o.ID] = true
			ops.ToUpdate = append(ops.ToUpdate, UpdateOperation{OptionID: o.ID, Input: o})
			continue
		}
		ops.ToCreate = append(ops.ToCreate, CreateOperation{TempID: nextTempID, Input: o})
		nextTempID++
	}

	for _, cur := range current {
		if !keepIDs[cur.ID] {
			ops.ToDelete = append(ops.ToDelete, cur)
		}
	}
	return ops
}

// ensureMinimumOptionsAndDefaultPresence rejects operation sets that
// would strip an active pathway of its last option, or delete the
// current default without any create/update supplying a replacement.
// Both checks report through one collector so the caller sees every
// violation at once.
func ensureMinimumOptionsAndDefaultPresence(pathway *models.Pathway, current []models.PathwayOption, ops SyncOperations) error {
	var collector validators.Collector

	finalCount := len(current) - len(ops.ToDelete) + len(ops.ToCreate)
	if pathway.Active && finalCount == 0 {
		collector.Add("options", validators.CodeInvalidOperation,
			"an active pathway must keep at least one option")
	}

	if currentDefault := findDefault(current); currentDefault != nil {
		deleting := false
		for i := range ops.ToDelete {
			if ops.ToDelete[i].ID == currentDefault.ID {
				deleting = true
				break
			}
		}
		if deleting && !carriesDefault(ops) {
			collector.Add("options", validators.CodeCannotRemoveDefault,
				fmt.Sprintf("option %q is the pathway default and cannot be removed without a replacement default", currentDefault.Name))
		}
	}

	return collector.Err()
}

func carriesDefault(ops SyncOperations) bool {
	for _, op := range ops.ToUpdate {
		if op.Input.IsDefault {
			return true
		}
	}
	for _, op := range ops.ToCreate {
		if op.Input.IsDefault {
			return true
		}
	}
	return false
}
