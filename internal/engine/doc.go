// Package engine implements the martlens KPI reporting engine.
//
// The engine is the only part of martlens with real logic - it evaluates a
// declarative measure catalog against a star-schema warehouse and assembles
// the results into a single report.
//
// ARCHITECTURE:
//
// Catalog-Driven Evaluation:
// Each measure is a tagged aggregation kind over a closed set
// (sum, avg, count, count_distinct), dispatched by a single evaluator.
// There is no per-measure query text to keep in sync.
//
// Report Build Flow:
// 1. Assembler iterates the catalog in declaration order
// 2. Evaluator validates the definition against the live schema (pre-scan)
// 3. Evaluator streams the projected column through an accumulator
// 4. Each result becomes one (measure_name, measure_value) row
// 5. Per-measure failures become null values with an error tag
//
// Heterogeneously-shaped aggregates collapse into one two-column shape by
// construction: every measure evaluates independently to a (name, value)
// pair and the assembler concatenates them. Nothing relies on positional
// column alignment.
//
// The build is single-threaded by default. Because measures are independent
// and the warehouse accessor is read-only and safe for concurrent reads,
// Parallel mode evaluates one goroutine per measure; output order still
// matches catalog order either way.
//
// Cancellation between measure evaluations yields a partial report; the
// Complete flag distinguishes it from a full one.
package engine
