package warehouse

import (
	"context"

	"github.com/roach88/martlens/internal/value"
)

// ColumnType classifies a relation column for aggregation planning.
type ColumnType string

const (
	// TypeInteger marks whole-number columns (keys, quantities).
	TypeInteger ColumnType = "integer"

	// TypeReal marks floating-point columns (amounts, prices).
	TypeReal ColumnType = "real"

	// TypeText marks string columns (names, categories).
	TypeText ColumnType = "text"

	// TypeDate marks ISO-8601 date columns, stored as text.
	TypeDate ColumnType = "date"
)

// Numeric reports whether the column type supports sum/avg folds.
func (t ColumnType) Numeric() bool {
	return t == TypeInteger || t == TypeReal
}

// Column describes one column of a relation.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema describes the shape of one relation.
type Schema struct {
	Relation string   `json:"relation"`
	Columns  []Column `json:"columns"`
}

// Column returns the named column and whether it exists.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Accessor provides read-only access to the warehouse's relations.
//
// Implementations must be safe for concurrent reads: the report assembler
// may evaluate measures in parallel against a single Accessor. No method
// mutates warehouse state.
//
// Scans are lazy - rows are delivered one at a time through the callback,
// never materialized as a full slice. Count must not materialize rows at all.
//
// Error contract:
//   - Unknown relation: Error with ErrCodeRelationNotFound
//   - Unknown column: Error with ErrCodeColumnNotFound
//   - Row shape violation mid-scan: Error with ErrCodeSchemaMismatch
type Accessor interface {
	// Relations returns the schemas of all relations, in a stable order.
	Relations(ctx context.Context) ([]Schema, error)

	// Schema returns the schema of one relation.
	Schema(ctx context.Context, relation string) (Schema, error)

	// Count returns the number of rows in a relation without materializing them.
	Count(ctx context.Context, relation string) (int64, error)

	// ScanColumn streams the projected values of one column in row order.
	// The callback returning an error stops the scan and propagates the error.
	ScanColumn(ctx context.Context, relation, column string, fn func(value.Value) error) error
}
