// Package measure holds the declarative KPI catalog.
//
// A measure is a single aggregate business metric: a report label, a source
// relation, an aggregation kind, and an optional column. The catalog is an
// ordered sequence of measures and is the single extension point of the
// reporting engine - adding a measure requires no evaluator or assembler
// change.
//
// The aggregation vocabulary is a small closed set {sum, avg, count,
// count_distinct} dispatched by the evaluator; there is no per-measure
// query text.
package measure

import "github.com/roach88/martlens/internal/warehouse"

// Aggregation identifies one of the supported aggregate functions.
type Aggregation string

const (
	// AggSum folds a numeric column; nulls count as zero.
	AggSum Aggregation = "sum"

	// AggAvg averages a numeric column; nulls are excluded from the
	// denominator and an empty set yields a null result.
	AggAvg Aggregation = "avg"

	// AggCount counts rows with a non-null column value, or all rows
	// when no column is named.
	AggCount Aggregation = "count"

	// AggCountDistinct counts distinct non-null values of a column.
	AggCountDistinct Aggregation = "count_distinct"
)

// Aggregations lists the closed set of supported aggregation kinds.
var Aggregations = []Aggregation{AggSum, AggAvg, AggCount, AggCountDistinct}

// Known reports whether a is one of the supported aggregation kinds.
func (a Aggregation) Known() bool {
	for _, known := range Aggregations {
		if a == known {
			return true
		}
	}
	return false
}

// Definition declares one measure.
type Definition struct {
	// Name is the report label ("Total Sales").
	Name string `json:"name" yaml:"name"`

	// Source is the relation the measure reads.
	Source string `json:"source" yaml:"source"`

	// Aggregation selects the aggregate function.
	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`

	// Column names the aggregated field. Empty means row-count and is
	// only valid with AggCount.
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
}

// Catalog is an ordered sequence of measure definitions. Report row order
// follows catalog order, always.
type Catalog []Definition

// DefaultCatalog returns the standard six KPIs over the star schema.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Total Sales", Source: warehouse.RelFactSales, Aggregation: AggSum, Column: "sales_amount"},
		{Name: "Total Quantity", Source: warehouse.RelFactSales, Aggregation: AggSum, Column: "quantity"},
		{Name: "Average Price", Source: warehouse.RelFactSales, Aggregation: AggAvg, Column: "price"},
		{Name: "Total Orders", Source: warehouse.RelFactSales, Aggregation: AggCountDistinct, Column: "order_number"},
		{Name: "Total Products", Source: warehouse.RelDimProducts, Aggregation: AggCountDistinct, Column: "product_name"},
		{Name: "Total Customers", Source: warehouse.RelDimCustomers, Aggregation: AggCount, Column: "customer_key"},
	}
}
