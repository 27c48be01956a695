package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

func TestWarehouse_StarShape(t *testing.T) {
	w := NewStarWarehouse(
		[]warehouse.FactSalesRow{
			{OrderNumber: "SO-1", ProductKey: 1, CustomerKey: 1, OrderDate: "2024-01-02", SalesAmount: 10, Quantity: 2, Price: 5},
		},
		[]warehouse.DimCustomerRow{
			{CustomerKey: 1, FirstName: "Ada", Birthdate: "1990-05-01", Country: "Germany"},
		},
		[]warehouse.DimProductRow{
			{ProductKey: 1, Category: "Bikes", Subcategory: "Mountain", ProductName: "Mountain-100"},
		},
	)

	ctx := context.Background()

	schemas, err := w.Relations(ctx)
	require.NoError(t, err)
	require.Len(t, schemas, 3)
	assert.Equal(t, warehouse.RelFactSales, schemas[0].Relation)

	n, err := w.Count(ctx, warehouse.RelDimCustomers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got []value.Value
	err = w.ScanColumn(ctx, warehouse.RelFactSales, "sales_amount", func(v value.Value) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []value.Value{value.Float(10)}, got)
}

func TestWarehouse_Errors(t *testing.T) {
	w := NewStarWarehouse(nil, nil, nil)
	ctx := context.Background()

	_, err := w.Schema(ctx, "gold_fact_sales")
	assert.True(t, warehouse.IsRelationNotFound(err))

	_, err = w.Count(ctx, "gold_fact_sales")
	assert.True(t, warehouse.IsRelationNotFound(err))

	err = w.ScanColumn(ctx, warehouse.RelFactSales, "no_such_column", func(value.Value) error { return nil })
	assert.True(t, warehouse.IsColumnNotFound(err))
}

func TestWarehouse_RowWidthMismatch(t *testing.T) {
	rel := Relation{
		Schema: warehouse.Schema{
			Relation: "dim_currency",
			Columns: []warehouse.Column{
				{Name: "code", Type: warehouse.TypeText},
				{Name: "rate", Type: warehouse.TypeReal},
			},
		},
		Rows: [][]value.Value{
			{value.Text("EUR")}, // missing rate cell
		},
	}
	w := NewWarehouse(rel)

	err := w.ScanColumn(context.Background(), "dim_currency", "code", func(value.Value) error { return nil })
	assert.True(t, warehouse.IsSchemaMismatch(err))
}
