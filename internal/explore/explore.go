// Package explore implements the read-only exploration queries that
// surround the reporting engine: structural metadata listing, distinct
// categorical values, and raw date-range probes.
//
// Everything here is a thin pass-through over warehouse.Accessor - no
// aggregation logic lives in this package.
package explore

import (
	"context"

	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

// Relations lists all relation schemas the warehouse exposes.
func Relations(ctx context.Context, acc warehouse.Accessor) ([]warehouse.Schema, error) {
	return acc.Relations(ctx)
}

// Columns lists the columns of one relation.
func Columns(ctx context.Context, acc warehouse.Accessor, relation string) ([]warehouse.Column, error) {
	schema, err := acc.Schema(ctx, relation)
	if err != nil {
		return nil, err
	}
	return schema.Columns, nil
}

// DistinctValues returns the distinct non-null values of one column in
// first-seen row order. Useful for browsing unnormalized categorical
// columns (country spellings, category labels).
func DistinctValues(ctx context.Context, acc warehouse.Accessor, relation, column string) ([]value.Value, error) {
	seen := make(map[string]struct{})
	var distinct []value.Value

	err := acc.ScanColumn(ctx, relation, column, func(v value.Value) error {
		if value.IsNull(v) {
			return nil
		}
		key := value.Key(v)
		if _, ok := seen[key]; ok {
			return nil
		}
		seen[key] = struct{}{}
		distinct = append(distinct, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return distinct, nil
}

// DateRange probes the minimum and maximum non-null values of a column.
// ISO-8601 date text compares correctly under the lexicographic ordering
// used for Text values; numeric columns compare numerically.
//
// Both bounds are null when the relation has no non-null values.
func DateRange(ctx context.Context, acc warehouse.Accessor, relation, column string) (min, max value.Value, err error) {
	min, max = value.Null{}, value.Null{}

	err = acc.ScanColumn(ctx, relation, column, func(v value.Value) error {
		if value.IsNull(v) {
			return nil
		}
		if value.IsNull(min) || less(v, min) {
			min = v
		}
		if value.IsNull(max) || less(max, v) {
			max = v
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return min, max, nil
}

// less orders two non-null values: numerics numerically, everything else
// by text rendering.
func less(a, b value.Value) bool {
	af, aok := value.AsFloat(a)
	bf, bok := value.AsFloat(b)
	if aok && bok {
		return af < bf
	}
	return value.String(a) < value.String(b)
}
