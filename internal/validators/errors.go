package validators

import (
	"fmt"
	"strconv"
	"strings"
)

// Error codes surfaced by option sync validation and the invariant
// checks. These are wire-level contract values: API clients key on
// them, so they must stay stable.
const (
	CodeRequired              = "REQUIRED"
	CodeMultipleDefaults      = "MULTIPLE_DEFAULTS"
	CodeDuplicateNames        = "DUPLICATE_NAMES"
	CodeOptionsNotFound       = "OPTIONS_NOT_FOUND"
	CodeWrongPathway          = "WRONG_PATHWAY"
	CodeNodesNotFound         = "NODES_NOT_FOUND"
	CodeDuplicateNodes        = "DUPLICATE_NODES"
	CodeConsecutiveDuplicates = "CONSECUTIVE_DUPLICATES"
	CodeInvalidOperation      = "INVALID_OPERATION"
	// Kept in the legacy camelCase form the mobile clients already match on.
	CodeCannotRemoveDefault = "cannotRemoveDefaultOption"
)

// FieldError pins one validation failure to the payload field that
// caused it, e.g. "options[2].tolls".
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s [%s]", e.Field, e.Message, e.Code)
}

// ValidationError aggregates every field error found in one validation
// pass so a caller can surface all of them in a single round trip.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// HasCode reports whether any collected field error carries the code.
func (e *ValidationError) HasCode(code string) bool {
	for _, fe := range e.Errors {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// Collector accumulates field errors across a validation pass.
// Validators never fail fast; they add everything they find and the
// orchestrator raises once at the end.
type Collector struct {
	errs []FieldError
}

func (c *Collector) Add(field, code, message string) {
	c.errs = append(c.errs, FieldError{Field: field, Code: code, Message: message})
}

func (c *Collector) AddAll(errs []FieldError) {
	c.errs = append(c.errs, errs...)
}

func (c *Collector) HasErrors() bool { return len(c.errs) > 0 }

// Err returns the aggregated validation error, or nil when every
// check passed.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: c.errs}
}

// JoinIDs renders a list of record ids for error messages.
func JoinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
