// Package compiler turns CUE measure catalogs into measure definitions.
//
// CUE is the primary catalog format: the constraint schema below rejects
// unknown aggregation keywords and missing fields at compile time, before
// the evaluator ever sees a definition. YAML catalogs (internal/measure)
// exist as a lighter alternative with the same document shape.
package compiler

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/martlens/internal/measure"
)

// catalogSchema constrains a measure catalog document:
//
//	measures: [
//	  {name: "Total Sales", source: "fact_sales", aggregation: "sum", column: "sales_amount"},
//	]
//
// column is optional only for row-count measures; the evaluator enforces
// that rule against the live warehouse schema.
const catalogSchema = `
measures: [...{
	name!:       string & != ""
	source!:     string & != ""
	aggregation!: "sum" | "avg" | "count" | "count_distinct"
	column?:     string
}]
`

// ValidationError describes one catalog compilation failure.
type ValidationError struct {
	// Field is the CUE path of the offending value ("measures[2].aggregation").
	Field string `json:"field"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Code is the error code for machine consumption.
	Code string `json:"code"`
}

// Error codes for catalog compilation.
const (
	// ErrCatalogSyntax indicates the document failed to parse or unify.
	ErrCatalogSyntax = "E101"

	// ErrCatalogNoMeasures indicates an empty or missing measures list.
	ErrCatalogNoMeasures = "E102"

	// ErrCatalogBadMeasure indicates one measure entry failed to decode.
	ErrCatalogBadMeasure = "E103"
)

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CompileCatalog validates and decodes a CUE catalog document.
// Declaration order of the measures list is preserved.
func CompileCatalog(doc cue.Value) (measure.Catalog, []ValidationError) {
	cuectx := doc.Context()
	schema := cuectx.CompileString(catalogSchema)
	if err := schema.Err(); err != nil {
		return nil, []ValidationError{{Message: err.Error(), Code: ErrCatalogSyntax}}
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Final()); err != nil {
		return nil, []ValidationError{{Message: err.Error(), Code: ErrCatalogSyntax}}
	}

	list := unified.LookupPath(cue.ParsePath("measures"))
	if !list.Exists() {
		return nil, []ValidationError{{Field: "measures", Message: "no measures declared", Code: ErrCatalogNoMeasures}}
	}

	iter, err := list.List()
	if err != nil {
		return nil, []ValidationError{{Field: "measures", Message: err.Error(), Code: ErrCatalogSyntax}}
	}

	var (
		catalog measure.Catalog
		errs    []ValidationError
	)
	for iter.Next() {
		var def measure.Definition
		if err := iter.Value().Decode(&def); err != nil {
			errs = append(errs, ValidationError{
				Field:   iter.Value().Path().String(),
				Message: err.Error(),
				Code:    ErrCatalogBadMeasure,
			})
			continue
		}
		catalog = append(catalog, def)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if len(catalog) == 0 {
		return nil, []ValidationError{{Field: "measures", Message: "no measures declared", Code: ErrCatalogNoMeasures}}
	}
	return catalog, nil
}

// LoadCatalog reads and compiles a CUE catalog file.
func LoadCatalog(path string) (measure.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	cuectx := cuecontext.New()
	doc := cuectx.CompileBytes(data, cue.Filename(path))
	if err := doc.Err(); err != nil {
		return nil, ValidationError{Message: err.Error(), Code: ErrCatalogSyntax}
	}

	catalog, errs := CompileCatalog(doc)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("compile catalog %s: %s", path, strings.Join(msgs, "; "))
	}
	return catalog, nil
}
