package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/martlens/internal/warehouse"
)

// EvalError represents an error detected while evaluating one measure.
//
// Evaluation errors include:
//   - Unsupported aggregation: aggregation+column combination is invalid
//     (sum over a text column, count_distinct without a column, unknown
//     aggregation keyword) - detected before scanning, never mid-stream
//   - Wrapped warehouse errors: missing relation, missing column, row
//     shape violations
//
// EvalError includes structured fields for diagnostics; the report
// assembler surfaces Code as the per-measure error tag.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// Measure is the report label of the failing definition.
	Measure string

	// Relation identifies the source relation, when relevant.
	Relation string

	// Column identifies the aggregated column, when relevant.
	Column string

	// Err is the underlying cause (warehouse errors), if any.
	Err error
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeUnsupportedAggregation indicates an invalid aggregation+column
	// combination in a measure definition.
	ErrCodeUnsupportedAggregation EvalErrorCode = "UNSUPPORTED_AGGREGATION"

	// ErrCodeRelationNotFound mirrors warehouse.ErrCodeRelationNotFound
	// at the measure level.
	ErrCodeRelationNotFound EvalErrorCode = "RELATION_NOT_FOUND"

	// ErrCodeColumnNotFound mirrors warehouse.ErrCodeColumnNotFound
	// at the measure level.
	ErrCodeColumnNotFound EvalErrorCode = "COLUMN_NOT_FOUND"

	// ErrCodeSchemaMismatch mirrors warehouse.ErrCodeSchemaMismatch
	// at the measure level.
	ErrCodeSchemaMismatch EvalErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeScanFailed indicates a warehouse read failure with no more
	// specific classification.
	ErrCodeScanFailed EvalErrorCode = "SCAN_FAILED"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Measure != "" && e.Column != "" {
		return fmt.Sprintf("%s: %s (measure=%s, relation=%s, column=%s)", e.Code, e.Message, e.Measure, e.Relation, e.Column)
	}
	if e.Measure != "" {
		return fmt.Sprintf("%s: %s (measure=%s, relation=%s)", e.Code, e.Message, e.Measure, e.Relation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// IsUnsupportedAggregation returns true if the error is an invalid-definition error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedAggregation(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeUnsupportedAggregation
	}
	return false
}

// NewUnsupportedAggregation creates an EvalError for an invalid definition.
func NewUnsupportedAggregation(measure, relation, column, detail string) *EvalError {
	return &EvalError{
		Code:     ErrCodeUnsupportedAggregation,
		Message:  detail,
		Measure:  measure,
		Relation: relation,
		Column:   column,
	}
}

// wrapWarehouseError lifts a warehouse read error into an EvalError,
// preserving the warehouse code so one bad relation tags only the
// measures bound to it.
func wrapWarehouseError(measure, relation, column string, err error) *EvalError {
	code := ErrCodeScanFailed
	switch warehouse.CodeOf(err) {
	case warehouse.ErrCodeRelationNotFound:
		code = ErrCodeRelationNotFound
	case warehouse.ErrCodeColumnNotFound:
		code = ErrCodeColumnNotFound
	case warehouse.ErrCodeSchemaMismatch:
		code = ErrCodeSchemaMismatch
	}
	return &EvalError{
		Code:     code,
		Message:  "warehouse read failed",
		Measure:  measure,
		Relation: relation,
		Column:   column,
		Err:      err,
	}
}
