package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/martlens/internal/measure"
	"github.com/roach88/martlens/internal/value"
)

// MeasureResult is one report row: a measure name and its scalar value.
//
// Value is null when the source relation is empty (for sum/avg) or when the
// measure failed; in the failure case ErrTag carries the error code and
// Detail the diagnostic. A failed measure never blocks the others.
type MeasureResult struct {
	Name   string        `json:"measure_name"`
	Value  value.Value   `json:"measure_value"`
	ErrTag EvalErrorCode `json:"error,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// Failed reports whether this measure carries an error tag.
func (r MeasureResult) Failed() bool {
	return r.ErrTag != ""
}

// Report is an ordered sequence of measure results. Row order always equals
// catalog declaration order, regardless of evaluation concurrency.
//
// Complete distinguishes a full report from a partial one produced by
// cancellation mid-build. A partial report contains the subset of results
// that were evaluated before the cancellation, still in catalog order.
type Report struct {
	RunID    string          `json:"run_id"`
	Results  []MeasureResult `json:"results"`
	Complete bool            `json:"complete"`
}

// AnyFailed reports whether any measure in the report carries an error tag.
func (r Report) AnyFailed() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Builder assembles reports by running a catalog through the evaluator.
// It is stateless between builds - each BuildReport call is a single-pass
// transformation from catalog to report over a fresh warehouse read.
type Builder struct {
	eval     *Evaluator
	parallel bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithParallel enables one-goroutine-per-measure evaluation. Measures are
// independent and the accessor is read-only, so no locking is needed;
// output order is unaffected.
func WithParallel() BuilderOption {
	return func(b *Builder) { b.parallel = true }
}

// NewBuilder creates a report builder over the given evaluator.
func NewBuilder(eval *Evaluator, opts ...BuilderOption) *Builder {
	b := &Builder{eval: eval}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildReport evaluates the catalog in declared order and unions the
// results into one report. A nil catalog means the standard six KPIs.
//
// Failure policy: any evaluator failure for one definition is captured as
// a null-valued MeasureResult with an error tag; the build continues. A
// missing relation therefore tags every measure bound to it while
// unrelated measures proceed - the report always enumerates every catalog
// entry by name, with a value or a diagnostic, never silently dropping one.
//
// The only error BuildReport itself returns is context cancellation, in
// which case the partial report (Complete=false) accompanies the error.
// The builder does not retry; retry policy belongs to the caller.
func (b *Builder) BuildReport(ctx context.Context, catalog measure.Catalog) (Report, error) {
	if catalog == nil {
		catalog = measure.DefaultCatalog()
	}

	report := Report{RunID: uuid.NewString()}

	if b.parallel {
		return b.buildParallel(ctx, catalog, report)
	}
	return b.buildSequential(ctx, catalog, report)
}

func (b *Builder) buildSequential(ctx context.Context, catalog measure.Catalog, report Report) (Report, error) {
	for _, def := range catalog {
		// Cancellation point between measure evaluations.
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, b.evaluateOne(ctx, def))
	}
	report.Complete = true
	return report, nil
}

func (b *Builder) buildParallel(ctx context.Context, catalog measure.Catalog, report Report) (Report, error) {
	slots := make([]*MeasureResult, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	for i, def := range catalog {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := b.evaluateOne(gctx, def)
			slots[i] = &res
			return nil
		})
	}
	waitErr := g.Wait()

	// Results keep catalog order; cancelled slots are simply absent.
	report.Complete = true
	for _, slot := range slots {
		if slot == nil {
			report.Complete = false
			continue
		}
		report.Results = append(report.Results, *slot)
	}

	if waitErr != nil {
		return report, waitErr
	}
	return report, nil
}

// evaluateOne runs a single definition and maps any failure into the
// result row rather than propagating it.
func (b *Builder) evaluateOne(ctx context.Context, def measure.Definition) MeasureResult {
	v, err := b.eval.Evaluate(ctx, def)
	if err != nil {
		res := MeasureResult{Name: def.Name, Value: value.Null{}, ErrTag: ErrCodeScanFailed, Detail: err.Error()}
		var ee *EvalError
		if errors.As(err, &ee) {
			res.ErrTag = ee.Code
		}
		return res
	}
	return MeasureResult{Name: def.Name, Value: v}
}
