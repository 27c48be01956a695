package warehouse

import (
	"errors"
	"fmt"
)

// Error represents a failure detected while reading the warehouse.
//
// Warehouse errors include:
//   - Relation not found: the catalog names a relation the warehouse lacks
//   - Column not found: a projection references a column missing from the schema
//   - Schema mismatch: a scanned row's shape does not match the declared schema
//
// Error includes structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Relation identifies the affected relation.
	Relation string

	// Column identifies the affected column (projection/shape errors).
	Column string
}

// ErrorCode categorizes warehouse read errors.
type ErrorCode string

const (
	// ErrCodeRelationNotFound indicates an unknown relation identifier.
	ErrCodeRelationNotFound ErrorCode = "RELATION_NOT_FOUND"

	// ErrCodeColumnNotFound indicates a projection of a missing column.
	ErrCodeColumnNotFound ErrorCode = "COLUMN_NOT_FOUND"

	// ErrCodeSchemaMismatch indicates a row shape that violates the schema.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Relation != "" && e.Column != "" {
		return fmt.Sprintf("%s: %s (relation=%s, column=%s)", e.Code, e.Message, e.Relation, e.Column)
	}
	if e.Relation != "" {
		return fmt.Sprintf("%s: %s (relation=%s)", e.Code, e.Message, e.Relation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRelationNotFound returns true if the error is a relation-not-found error.
// Uses errors.As to handle wrapped errors.
func IsRelationNotFound(err error) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Code == ErrCodeRelationNotFound
	}
	return false
}

// IsColumnNotFound returns true if the error is a column-not-found error.
// Uses errors.As to handle wrapped errors.
func IsColumnNotFound(err error) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Code == ErrCodeColumnNotFound
	}
	return false
}

// IsSchemaMismatch returns true if the error is a schema mismatch error.
// Uses errors.As to handle wrapped errors.
func IsSchemaMismatch(err error) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Code == ErrCodeSchemaMismatch
	}
	return false
}

// CodeOf extracts the warehouse error code from an error chain.
// Returns the empty code if err carries no warehouse Error.
func CodeOf(err error) ErrorCode {
	var we *Error
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// NewRelationNotFound creates an Error for an unknown relation.
func NewRelationNotFound(relation string) *Error {
	return &Error{
		Code:     ErrCodeRelationNotFound,
		Message:  "relation not found in warehouse",
		Relation: relation,
	}
}

// NewColumnNotFound creates an Error for a missing column projection.
func NewColumnNotFound(relation, column string) *Error {
	return &Error{
		Code:     ErrCodeColumnNotFound,
		Message:  "column not found in relation schema",
		Relation: relation,
		Column:   column,
	}
}

// NewSchemaMismatch creates an Error for a row shape violation.
func NewSchemaMismatch(relation, column, detail string) *Error {
	return &Error{
		Code:     ErrCodeSchemaMismatch,
		Message:  detail,
		Relation: relation,
		Column:   column,
	}
}
