package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/martlens/internal/measure"
)

const goodCatalog = `
measures: [
	{name: "Total Sales", source: "fact_sales", aggregation: "sum", column: "sales_amount"},
	{name: "Total Orders", source: "fact_sales", aggregation: "count_distinct", column: "order_number"},
	{name: "Fact Rows", source: "fact_sales", aggregation: "count"},
]
`

func TestCompileCatalog(t *testing.T) {
	doc := cuecontext.New().CompileString(goodCatalog)
	require.NoError(t, doc.Err())

	catalog, errs := CompileCatalog(doc)
	require.Empty(t, errs)
	require.Len(t, catalog, 3)

	// Declaration order is preserved.
	assert.Equal(t, "Total Sales", catalog[0].Name)
	assert.Equal(t, measure.AggSum, catalog[0].Aggregation)
	assert.Equal(t, "order_number", catalog[1].Column)

	// Row-count measure: column omitted.
	assert.Equal(t, measure.AggCount, catalog[2].Aggregation)
	assert.Empty(t, catalog[2].Column)
}

func TestCompileCatalog_UnknownAggregation(t *testing.T) {
	doc := cuecontext.New().CompileString(`
measures: [
	{name: "Bad", source: "fact_sales", aggregation: "median", column: "price"},
]
`)
	require.NoError(t, doc.Err())

	_, errs := CompileCatalog(doc)
	require.NotEmpty(t, errs, "unknown aggregation keyword must fail at compile time")
	assert.Equal(t, ErrCatalogSyntax, errs[0].Code)
}

func TestCompileCatalog_EmptyList(t *testing.T) {
	doc := cuecontext.New().CompileString(`measures: []`)
	require.NoError(t, doc.Err())

	_, errs := CompileCatalog(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCatalogNoMeasures, errs[0].Code)
}

func TestCompileCatalog_MissingMeasures(t *testing.T) {
	doc := cuecontext.New().CompileString(`kpis: []`)
	require.NoError(t, doc.Err())

	_, errs := CompileCatalog(doc)
	require.NotEmpty(t, errs)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.cue")
	require.NoError(t, os.WriteFile(path, []byte(goodCatalog), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, catalog, 3)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte(`measures: [{name: }`), 0o644))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}
