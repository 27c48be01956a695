package engine

import (
	"github.com/roach88/martlens/internal/value"
)

// accumulator folds a stream of column values into one scalar result.
//
// Accumulators are incremental - they hold O(1) state, except the distinct
// accumulator which holds one set entry per distinct value. None of them
// require the relation to fit in memory as rows.
type accumulator interface {
	add(v value.Value)
	result() value.Value
}

// sumAccumulator folds sum(column). Nulls count as zero; an empty relation
// yields a null result (SQL SUM convention).
type sumAccumulator struct {
	total float64
	rows  int
	// integral stays true while every non-null input is an Int, so
	// sum(quantity) reports as an integer, not 6.0.
	integral bool
}

func newSumAccumulator() *sumAccumulator {
	return &sumAccumulator{integral: true}
}

func (a *sumAccumulator) add(v value.Value) {
	a.rows++
	if value.IsNull(v) {
		return // null is 0 for sum
	}
	if _, isInt := v.(value.Int); !isInt {
		a.integral = false
	}
	if f, ok := value.AsFloat(v); ok {
		a.total += f
	}
}

func (a *sumAccumulator) result() value.Value {
	if a.rows == 0 {
		return value.Null{}
	}
	if a.integral {
		return value.Int(int64(a.total))
	}
	return value.Float(a.total)
}

// avgAccumulator folds avg(column). Nulls are excluded from the
// denominator; an empty set yields null, never a divide-by-zero.
type avgAccumulator struct {
	total   float64
	nonNull int
}

func (a *avgAccumulator) add(v value.Value) {
	if f, ok := value.AsFloat(v); ok {
		a.total += f
		a.nonNull++
	}
}

func (a *avgAccumulator) result() value.Value {
	if a.nonNull == 0 {
		return value.Null{}
	}
	return value.Float(a.total / float64(a.nonNull))
}

// countAccumulator counts non-null values. The evaluator uses the
// accessor's Count fast path for column-less row counts, so this
// accumulator always has a column to inspect.
type countAccumulator struct {
	nonNull int64
}

func (a *countAccumulator) add(v value.Value) {
	if !value.IsNull(v) {
		a.nonNull++
	}
}

func (a *countAccumulator) result() value.Value {
	return value.Int(a.nonNull)
}

// distinctAccumulator counts distinct non-null values, keyed by type-tagged
// value identity. An all-null column yields 0, not null. The result is
// invariant under row-order permutation.
type distinctAccumulator struct {
	seen map[string]struct{}
}

func newDistinctAccumulator() *distinctAccumulator {
	return &distinctAccumulator{seen: make(map[string]struct{})}
}

func (a *distinctAccumulator) add(v value.Value) {
	if value.IsNull(v) {
		return
	}
	a.seen[value.Key(v)] = struct{}{}
}

func (a *distinctAccumulator) result() value.Value {
	return value.Int(int64(len(a.seen)))
}
