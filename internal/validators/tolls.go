package validators

import "fmt"

// CheckTollNodes inspects one option's toll list for duplicate node
// references anywhere in the list and for immediately adjacent
// duplicates. The two conditions are reported independently: a
// back-to-back repeat raises both. field is the payload path of the
// toll list (e.g. "options[2].tolls") so multi-option payloads can
// pinpoint the offending option. Pure function, no I/O.
func CheckTollNodes(field string, nodeIDs []uint) []FieldError {
	var errs []FieldError

	seen := make(map[uint]bool, len(nodeIDs))
	reported := make(map[uint]bool)
	var dups []uint
	for _, id := range nodeIDs {
		if seen[id] && !reported[id] {
			dups = append(dups, id)
			reported[id] = true
		}
		seen[id] = true
	}
	if len(dups) > 0 {
		errs = append(errs, FieldError{
			Field:   field,
			Code:    CodeDuplicateNodes,
			Message: fmt.Sprintf("toll list references node(s) %s more than once", JoinIDs(dups)),
		})
	}

	var adjacent []uint
	adjReported := make(map[uint]bool)
	for i := 1; i < len(nodeIDs); i++ {
		if nodeIDs[i] == nodeIDs[i-1] && !adjReported[nodeIDs[i]] {
			adjacent = append(adjacent, nodeIDs[i])
			adjReported[nodeIDs[i]] = true
		}
	}
	if len(adjacent) > 0 {
		errs = append(errs, FieldError{
			Field:   field,
			Code:    CodeConsecutiveDuplicates,
			Message: fmt.Sprintf("toll list repeats node(s) %s back to back", JoinIDs(adjacent)),
		})
	}

	return errs
}
