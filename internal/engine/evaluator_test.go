package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/martlens/internal/measure"
	"github.com/roach88/martlens/internal/testutil"
	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

// threeLineItemFacts is the canonical fixture: order A spans two line items,
// order B has one.
func threeLineItemFacts() []warehouse.FactSalesRow {
	return []warehouse.FactSalesRow{
		{OrderNumber: "A", ProductKey: 1, CustomerKey: 1, OrderDate: "2024-01-02", SalesAmount: 10, Quantity: 2, Price: 5},
		{OrderNumber: "A", ProductKey: 2, CustomerKey: 1, OrderDate: "2024-01-02", SalesAmount: 20, Quantity: 1, Price: 20},
		{OrderNumber: "B", ProductKey: 1, CustomerKey: 2, OrderDate: "2024-02-10", SalesAmount: 30, Quantity: 3, Price: 10},
	}
}

func newTestEvaluator(facts []warehouse.FactSalesRow, customers []warehouse.DimCustomerRow, products []warehouse.DimProductRow) *Evaluator {
	return NewEvaluator(testutil.NewStarWarehouse(facts, customers, products))
}

func TestEvaluate_SumAndQuantity(t *testing.T) {
	eval := newTestEvaluator(threeLineItemFacts(), nil, nil)
	ctx := context.Background()

	v, err := eval.Evaluate(ctx, measure.Definition{
		Name: "Total Sales", Source: warehouse.RelFactSales, Aggregation: measure.AggSum, Column: "sales_amount",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Float(60), v)

	// Integer column sums stay integral.
	v, err = eval.Evaluate(ctx, measure.Definition{
		Name: "Total Quantity", Source: warehouse.RelFactSales, Aggregation: measure.AggSum, Column: "quantity",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Int(6), v)
}

func TestEvaluate_Avg(t *testing.T) {
	eval := newTestEvaluator(threeLineItemFacts(), nil, nil)

	v, err := eval.Evaluate(context.Background(), measure.Definition{
		Name: "Average Price", Source: warehouse.RelFactSales, Aggregation: measure.AggAvg, Column: "price",
	})
	require.NoError(t, err)

	f, ok := value.AsFloat(v)
	require.True(t, ok)
	assert.InDelta(t, (5.0+20.0+10.0)/3.0, f, 1e-9)
}

func TestEvaluate_CountDistinctOrders(t *testing.T) {
	eval := newTestEvaluator(threeLineItemFacts(), nil, nil)

	// Order A spans two line items: distinct count is 2, not 3.
	v, err := eval.Evaluate(context.Background(), measure.Definition{
		Name: "Total Orders", Source: warehouse.RelFactSales, Aggregation: measure.AggCountDistinct, Column: "order_number",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)
}

func TestEvaluate_CountDistinct_SharedProductName(t *testing.T) {
	products := []warehouse.DimProductRow{
		{ProductKey: 1, Category: "Toys", Subcategory: "Small", ProductName: "Widget"},
		{ProductKey: 2, Category: "Toys", Subcategory: "Large", ProductName: "Widget"},
	}
	eval := newTestEvaluator(nil, nil, products)

	v, err := eval.Evaluate(context.Background(), measure.Definition{
		Name: "Total Products", Source: warehouse.RelDimProducts, Aggregation: measure.AggCountDistinct, Column: "product_name",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), v, "two rows sharing a product name count once")
}

func TestEvaluate_CountDistinct_PermutationInvariant(t *testing.T) {
	facts := threeLineItemFacts()
	reversed := []warehouse.FactSalesRow{facts[2], facts[1], facts[0]}

	def := measure.Definition{
		Name: "Total Orders", Source: warehouse.RelFactSales, Aggregation: measure.AggCountDistinct, Column: "order_number",
	}

	v1, err := newTestEvaluator(facts, nil, nil).Evaluate(context.Background(), def)
	require.NoError(t, err)
	v2, err := newTestEvaluator(reversed, nil, nil).Evaluate(context.Background(), def)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
}

func TestEvaluate_DistinctLessOrEqualRowCount(t *testing.T) {
	eval := newTestEvaluator(threeLineItemFacts(), nil, nil)
	ctx := context.Background()

	distinct, err := eval.Evaluate(ctx, measure.Definition{
		Name: "Total Orders", Source: warehouse.RelFactSales, Aggregation: measure.AggCountDistinct, Column: "order_number",
	})
	require.NoError(t, err)

	rows, err := eval.Evaluate(ctx, measure.Definition{
		Name: "Fact Rows", Source: warehouse.RelFactSales, Aggregation: measure.AggCount,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, int64(distinct.(value.Int)), int64(rows.(value.Int)))
}

func TestEvaluate_CountNonNullColumn(t *testing.T) {
	customers := []warehouse.DimCustomerRow{
		{CustomerKey: 1, FirstName: "Ada", Birthdate: "1990-05-01", Country: "Germany"},
		{CustomerKey: 2, FirstName: "Ben", Birthdate: "1985-11-20", Country: "germany"},
		{CustomerKey: 3, FirstName: "Cho", Birthdate: "1979-03-14", Country: "France"},
	}
	eval := newTestEvaluator(nil, customers, nil)

	v, err := eval.Evaluate(context.Background(), measure.Definition{
		Name: "Total Customers", Source: warehouse.RelDimCustomers, Aggregation: measure.AggCount, Column: "customer_key",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
}

func TestEvaluate_EmptyFactRelation(t *testing.T) {
	eval := newTestEvaluator(nil, nil, nil)
	ctx := context.Background()

	// Empty-relation sum yields null (SQL SUM convention).
	v, err := eval.Evaluate(ctx, measure.Definition{
		Name: "Total Sales", Source: warehouse.RelFactSales, Aggregation: measure.AggSum, Column: "sales_amount",
	})
	require.NoError(t, err)
	assert.True(t, value.IsNull(v))

	// Empty-relation avg yields null, never a divide-by-zero.
	v, err = eval.Evaluate(ctx, measure.Definition{
		Name: "Average Price", Source: warehouse.RelFactSales, Aggregation: measure.AggAvg, Column: "price",
	})
	require.NoError(t, err)
	assert.True(t, value.IsNull(v))

	// Counts yield 0, not null.
	v, err = eval.Evaluate(ctx, measure.Definition{
		Name: "Total Orders", Source: warehouse.RelFactSales, Aggregation: measure.AggCountDistinct, Column: "order_number",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), v)
}

func TestEvaluate_NullHandling(t *testing.T) {
	// A relation with a nullable numeric column: sum treats null as 0,
	// avg excludes it from the denominator, count_distinct ignores it.
	rel := testutil.Relation{
		Schema: warehouse.Schema{
			Relation: "fact_returns",
			Columns: []warehouse.Column{
				{Name: "refund", Type: warehouse.TypeReal},
			},
		},
		Rows: [][]value.Value{
			{value.Float(4)},
			{value.Null{}},
			{value.Float(8)},
		},
	}
	eval := NewEvaluator(testutil.NewWarehouse(rel))
	ctx := context.Background()

	v, err := eval.Evaluate(ctx, measure.Definition{Name: "Refund Sum", Source: "fact_returns", Aggregation: measure.AggSum, Column: "refund"})
	require.NoError(t, err)
	assert.Equal(t, value.Float(12), v)

	v, err = eval.Evaluate(ctx, measure.Definition{Name: "Refund Avg", Source: "fact_returns", Aggregation: measure.AggAvg, Column: "refund"})
	require.NoError(t, err)
	assert.Equal(t, value.Float(6), v, "avg denominator excludes nulls")

	v, err = eval.Evaluate(ctx, measure.Definition{Name: "Refund Count", Source: "fact_returns", Aggregation: measure.AggCount, Column: "refund"})
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)
}

func TestEvaluate_AllNullDistinctYieldsZero(t *testing.T) {
	rel := testutil.Relation{
		Schema: warehouse.Schema{
			Relation: "fact_returns",
			Columns:  []warehouse.Column{{Name: "reason", Type: warehouse.TypeText}},
		},
		Rows: [][]value.Value{
			{value.Null{}},
			{value.Null{}},
		},
	}
	eval := NewEvaluator(testutil.NewWarehouse(rel))

	v, err := eval.Evaluate(context.Background(), measure.Definition{
		Name: "Reasons", Source: "fact_returns", Aggregation: measure.AggCountDistinct, Column: "reason",
	})
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), v, "all-null distinct count is 0, not null")
}

func TestEvaluate_AvgEqualsSumOverNonNullCount(t *testing.T) {
	eval := newTestEvaluator(threeLineItemFacts(), nil, nil)
	ctx := context.Background()

	sum, err := eval.Evaluate(ctx, measure.Definition{Name: "s", Source: warehouse.RelFactSales, Aggregation: measure.AggSum, Column: "price"})
	require.NoError(t, err)
	cnt, err := eval.Evaluate(ctx, measure.Definition{Name: "c", Source: warehouse.RelFactSales, Aggregation: measure.AggCount, Column: "price"})
	require.NoError(t, err)
	avg, err := eval.Evaluate(ctx, measure.Definition{Name: "a", Source: warehouse.RelFactSales, Aggregation: measure.AggAvg, Column: "price"})
	require.NoError(t, err)

	sumF, _ := value.AsFloat(sum)
	cntF, _ := value.AsFloat(cnt)
	avgF, _ := value.AsFloat(avg)
	assert.InDelta(t, sumF/cntF, avgF, 1e-9)
}

func TestEvaluate_UnsupportedAggregation(t *testing.T) {
	eval := newTestEvaluator(threeLineItemFacts(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		def  measure.Definition
	}{
		{
			"sum over text column",
			measure.Definition{Name: "Bad", Source: warehouse.RelFactSales, Aggregation: measure.AggSum, Column: "order_number"},
		},
		{
			"avg over date column",
			measure.Definition{Name: "Bad", Source: warehouse.RelFactSales, Aggregation: measure.AggAvg, Column: "order_date"},
		},
		{
			"nonexistent column",
			measure.Definition{Name: "Bad", Source: warehouse.RelFactSales, Aggregation: measure.AggSum, Column: "discount"},
		},
		{
			"count_distinct without column",
			measure.Definition{Name: "Bad", Source: warehouse.RelFactSales, Aggregation: measure.AggCountDistinct},
		},
		{
			"sum without column",
			measure.Definition{Name: "Bad", Source: warehouse.RelFactSales, Aggregation: measure.AggSum},
		},
		{
			"unknown aggregation keyword",
			measure.Definition{Name: "Bad", Source: warehouse.RelFactSales, Aggregation: "median", Column: "price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.Evaluate(ctx, tt.def)
			require.Error(t, err)
			assert.True(t, IsUnsupportedAggregation(err), "want UNSUPPORTED_AGGREGATION, got %v", err)
		})
	}
}

func TestEvaluate_RelationNotFound(t *testing.T) {
	eval := newTestEvaluator(nil, nil, nil)

	_, err := eval.Evaluate(context.Background(), measure.Definition{
		Name: "Ghost", Source: "fact_shipments", Aggregation: measure.AggCount,
	})
	require.Error(t, err)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeRelationNotFound, ee.Code)
	assert.True(t, warehouse.IsRelationNotFound(err), "warehouse cause preserved through wrapping")
}
