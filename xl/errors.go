package xl

import (
	"errors"
	"fmt"
)

// Errors reported by the document model. Every failing call leaves the model
// exactly as it was before the call.
var (
	ErrOutOfRange          = errors.New("out of range")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrInvalidSheetName    = errors.New("invalid sheet name")
	ErrOverlappingMerge    = errors.New("overlapping merge")
	ErrInvalidRule         = errors.New("invalid rule")
	ErrColumnCountMismatch = errors.New("column count mismatch")
	ErrIO                  = errors.New("i/o error")

	ErrInvalidRange     = errors.New("invalid range")
	ErrStringTooLong    = errors.New("string too long")
	ErrOverlappingTable = errors.New("overlapping table")
	ErrInvalidFormula   = errors.New("invalid formula")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrInvalidImage     = errors.New("invalid image")
)

// RuleError describes a rejected rule parameter.
type RuleError struct {
	Kind   string // rule kind, e.g. "data bar"
	Field  string
	Reason string
}

func (e *RuleError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s rule: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s rule: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *RuleError) Unwrap() error { return ErrInvalidRule }

func ruleErr(kind, field, reason string) error {
	return &RuleError{Kind: kind, Field: field, Reason: reason}
}

func rangeErr(what string, v, lo, hi int) error {
	return fmt.Errorf("%s %d not in %d..%d: %w", what, v, lo, hi, ErrOutOfRange)
}
