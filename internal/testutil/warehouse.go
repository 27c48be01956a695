// Package testutil provides test doubles for the martlens packages.
package testutil

import (
	"context"
	"sync"

	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

// Relation is an in-memory relation: a schema plus rows in column order.
type Relation struct {
	Schema warehouse.Schema
	Rows   [][]value.Value
}

// Warehouse is an in-memory warehouse.Accessor for tests.
//
// Relations keep insertion order. All reads are guarded by a mutex so the
// accessor satisfies the concurrent-read contract under parallel report
// builds (and the race detector).
type Warehouse struct {
	mu        sync.RWMutex
	relations []Relation
}

// NewWarehouse creates an in-memory warehouse from literal relations.
func NewWarehouse(relations ...Relation) *Warehouse {
	return &Warehouse{relations: relations}
}

// NewStarWarehouse creates an in-memory warehouse holding the standard star
// schema populated from typed rows.
func NewStarWarehouse(facts []warehouse.FactSalesRow, customers []warehouse.DimCustomerRow, products []warehouse.DimProductRow) *Warehouse {
	factRel := Relation{Schema: warehouse.FactSalesSchema()}
	for _, f := range facts {
		factRel.Rows = append(factRel.Rows, []value.Value{
			value.Text(f.OrderNumber),
			value.Int(f.ProductKey),
			value.Int(f.CustomerKey),
			value.Text(f.OrderDate),
			value.Float(f.SalesAmount),
			value.Int(f.Quantity),
			value.Float(f.Price),
		})
	}

	custRel := Relation{Schema: warehouse.DimCustomersSchema()}
	for _, c := range customers {
		custRel.Rows = append(custRel.Rows, []value.Value{
			value.Int(c.CustomerKey),
			value.Text(c.FirstName),
			value.Text(c.Birthdate),
			value.Text(c.Country),
		})
	}

	prodRel := Relation{Schema: warehouse.DimProductsSchema()}
	for _, p := range products {
		prodRel.Rows = append(prodRel.Rows, []value.Value{
			value.Int(p.ProductKey),
			value.Text(p.Category),
			value.Text(p.Subcategory),
			value.Text(p.ProductName),
		})
	}

	return NewWarehouse(factRel, custRel, prodRel)
}

// Relations implements warehouse.Accessor.
func (w *Warehouse) Relations(ctx context.Context) ([]warehouse.Schema, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	schemas := make([]warehouse.Schema, 0, len(w.relations))
	for _, rel := range w.relations {
		schemas = append(schemas, rel.Schema)
	}
	return schemas, nil
}

// Schema implements warehouse.Accessor.
func (w *Warehouse) Schema(ctx context.Context, relation string) (warehouse.Schema, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rel, ok := w.lookup(relation)
	if !ok {
		return warehouse.Schema{}, warehouse.NewRelationNotFound(relation)
	}
	return rel.Schema, nil
}

// Count implements warehouse.Accessor.
func (w *Warehouse) Count(ctx context.Context, relation string) (int64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rel, ok := w.lookup(relation)
	if !ok {
		return 0, warehouse.NewRelationNotFound(relation)
	}
	return int64(len(rel.Rows)), nil
}

// ScanColumn implements warehouse.Accessor. Rows whose width does not match
// the declared schema surface as schema mismatches, like a malformed
// warehouse table would.
func (w *Warehouse) ScanColumn(ctx context.Context, relation, column string, fn func(value.Value) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rel, ok := w.lookup(relation)
	if !ok {
		return warehouse.NewRelationNotFound(relation)
	}

	idx := -1
	for i, col := range rel.Schema.Columns {
		if col.Name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return warehouse.NewColumnNotFound(relation, column)
	}

	for _, row := range rel.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(row) != len(rel.Schema.Columns) {
			return warehouse.NewSchemaMismatch(relation, column, "row width does not match schema")
		}
		if err := fn(row[idx]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Warehouse) lookup(relation string) (Relation, bool) {
	for _, rel := range w.relations {
		if rel.Schema.Relation == relation {
			return rel, true
		}
	}
	return Relation{}, false
}
