package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fleet_inventory/internal/models"
	"fleet_inventory/internal/validators"
)

// validatePayload runs every structural check over the bulk sync
// payload, in order: non-empty list, single explicit default, unique
// names, each persisted option referenced at most once, referenced
// option ids exist and belong to the synced pathway, referenced toll
// nodes exist, and per-option toll lists are free of duplicates.
// Failures accumulate into one collector and surface as a single
// *validators.ValidationError; only infrastructure errors from the
// batch lookups return early.
func (s *OptionSyncService) validatePayload(db *gorm.DB, pathwayID uint, options []BulkSyncOptionInput) error {
	var collector validators.Collector

	if len(options) == 0 {
		collector.Add("options", validators.CodeRequired,
			"options list must contain at least one entry")
	}

	defaults := 0
	for _, o := range options {
		if o.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		collector.Add("options", validators.CodeMultipleDefaults,
			"only one option may be flagged as default")
	}

	seenNames := make(map[string]int, len(options))
	for i, o := range options {
		key := strings.ToLower(strings.TrimSpace(o.Name))
		if first, dup := seenNames[key]; dup {
			collector.Add(fmt.Sprintf("options[%d].name", i), validators.CodeDuplicateNames,
				fmt.Sprintf("option name %q duplicates options[%d]", o.Name, first))
			continue
		}
		seenNames[key] = i
	}

	// Two entries targeting the same persisted option contradict each
	// other; reject the payload instead of applying one of them.
	seenIDs := make(map[uint]int, len(options))
	for i, o := range options {
		if o.ID == 0 {
			continue
		}
		if first, dup := seenIDs[o.ID]; dup {
			collector.Add(fmt.Sprintf("options[%d].id", i), validators.CodeInvalidOperation,
				fmt.Sprintf("option %d duplicates options[%d]", o.ID, first))
			continue
		}
		seenIDs[o.ID] = i
	}

	if err := s.checkReferencedOptions(db, pathwayID, options, &collector); err != nil {
		return err
	}
	if err := s.checkNodesExist(db, options, &collector); err != nil {
		return err
	}

	for i, o := range options {
		if o.Tolls == nil {
			continue
		}
		nodeIDs := make([]uint, len(o.Tolls))
		for j, t := range o.Tolls {
			nodeIDs[j] = t.NodeID
		}
		collector.AddAll(validators.CheckTollNodes(fmt.Sprintf("options[%d].tolls", i), nodeIDs))
	}

	return collector.Err()
}

// checkReferencedOptions batch-fetches every option id named in the
// payload and reports ids that do not exist or that belong to another
// pathway, per referencing payload row.
func (s *OptionSyncService) checkReferencedOptions(db *gorm.DB, pathwayID uint, options []BulkSyncOptionInput, collector *validators.Collector) error {
	refs := make(map[uint][]int)
	var ids []uint
	for i, o := range options {
		if o.ID == 0 {
			continue
		}
		if _, seen := refs[o.ID]; !seen {
			ids = append(ids, o.ID)
		}
		refs[o.ID] = append(refs[o.ID], i)
	}
	if len(ids) == 0 {
		return nil
	}

	var found []models.PathwayOption
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.PathwayOption, len(found))
	for _, opt := range found {
		byID[opt.ID] = opt
	}

	for _, id := range ids {
		opt, ok := byID[id]
		for _, idx := range refs[id] {
			field := fmt.Sprintf("options[%d].id", idx)
			switch {
			case !ok:
				collector.Add(field, validators.CodeOptionsNotFound,
					fmt.Sprintf("option %d does not exist", id))
			case opt.PathwayID != pathwayID:
				collector.Add(field, validators.CodeWrongPathway,
					fmt.Sprintf("option %d belongs to pathway %d", id, opt.PathwayID))
			}
		}
	}
	return nil
}

// checkNodesExist collects the union of node ids referenced by tolls
// across every option and verifies them with one batch lookup. All
// missing ids are reported in a single error rather than once per
// option, so the payload triggers at most one query and one failure.
func (s *OptionSyncService) checkNodesExist(db *gorm.DB, options []BulkSyncOptionInput, collector *validators.Collector) error {
	seen := make(map[uint]bool)
	var ids []uint
	for _, o := range options {
		for _, t := range o.Tolls {
			if !seen[t.NodeID] {
				seen[t.NodeID] = true
				ids = append(ids, t.NodeID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var found []models.Node
	if err := db.Select("id").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return err
	}
	exists := make(map[uint]bool, len(found))
	for _, n := range found {
		exists[n.ID] = true
	}

	var missing []uint
	for _, id := range ids {
		if !exists[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		collector.Add("options", validators.CodeNodesNotFound,
			fmt.Sprintf("toll node(s) not found: %s", validators.JoinIDs(missing)))
	}
	return nil
}
