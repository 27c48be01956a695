package engine

import (
	"context"
	"fmt"

	"github.com/roach88/martlens/internal/measure"
	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

// Evaluator executes one measure definition at a time against a warehouse
// accessor. It holds no state between calls and is safe for concurrent use
// as long as the accessor is safe for concurrent reads.
type Evaluator struct {
	acc warehouse.Accessor
}

// NewEvaluator creates an evaluator over the given accessor.
// The accessor is passed explicitly - there is no ambient connection.
func NewEvaluator(acc warehouse.Accessor) *Evaluator {
	return &Evaluator{acc: acc}
}

// Evaluate computes one measure and returns its scalar value.
//
// The definition is validated against the live relation schema BEFORE any
// row is scanned, so an invalid aggregation+column combination fails fast
// rather than mid-stream. Row-count measures (count with no column) use the
// accessor's Count operation and materialize nothing.
//
// Null results are legitimate: sum and avg over an empty relation yield
// null. Count and count_distinct yield 0 on empty input.
func (e *Evaluator) Evaluate(ctx context.Context, def measure.Definition) (value.Value, error) {
	schema, err := e.acc.Schema(ctx, def.Source)
	if err != nil {
		return value.Null{}, wrapWarehouseError(def.Name, def.Source, def.Column, err)
	}

	if err := validateDefinition(def, schema); err != nil {
		return value.Null{}, err
	}

	// Fast path: row count needs no projection.
	if def.Aggregation == measure.AggCount && def.Column == "" {
		n, err := e.acc.Count(ctx, def.Source)
		if err != nil {
			return value.Null{}, wrapWarehouseError(def.Name, def.Source, "", err)
		}
		return value.Int(n), nil
	}

	acc := newAccumulatorFor(def.Aggregation)
	err = e.acc.ScanColumn(ctx, def.Source, def.Column, func(v value.Value) error {
		acc.add(v)
		return nil
	})
	if err != nil {
		return value.Null{}, wrapWarehouseError(def.Name, def.Source, def.Column, err)
	}

	return acc.result(), nil
}

// validateDefinition checks an aggregation+column combination against the
// relation schema. Detected before scanning, per the evaluator contract.
func validateDefinition(def measure.Definition, schema warehouse.Schema) error {
	if !def.Aggregation.Known() {
		return NewUnsupportedAggregation(def.Name, def.Source, def.Column,
			fmt.Sprintf("unknown aggregation %q", def.Aggregation))
	}

	// Row count is the only column-less form.
	if def.Column == "" {
		if def.Aggregation == measure.AggCount {
			return nil
		}
		return NewUnsupportedAggregation(def.Name, def.Source, "",
			fmt.Sprintf("%s requires a column", def.Aggregation))
	}

	col, ok := schema.Column(def.Column)
	if !ok {
		return NewUnsupportedAggregation(def.Name, def.Source, def.Column,
			fmt.Sprintf("column %q not in relation %q", def.Column, def.Source))
	}

	switch def.Aggregation {
	case measure.AggSum, measure.AggAvg:
		if !col.Type.Numeric() {
			return NewUnsupportedAggregation(def.Name, def.Source, def.Column,
				fmt.Sprintf("%s requires a numeric column, %q is %s", def.Aggregation, def.Column, col.Type))
		}
	case measure.AggCount, measure.AggCountDistinct:
		// Any column type counts.
	}

	return nil
}

// newAccumulatorFor selects the accumulator for a validated aggregation kind.
func newAccumulatorFor(agg measure.Aggregation) accumulator {
	switch agg {
	case measure.AggSum:
		return newSumAccumulator()
	case measure.AggAvg:
		return &avgAccumulator{}
	case measure.AggCountDistinct:
		return newDistinctAccumulator()
	default:
		return &countAccumulator{}
	}
}
