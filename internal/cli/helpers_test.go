package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/martlens/internal/store"
	"github.com/roach88/martlens/internal/warehouse"
)

// seedWarehouse creates a populated warehouse in a temp directory:
// two orders across three line items, two customers, one product.
//
// Expected standard KPIs: sales 60, quantity 6, average price 35/3,
// orders 2, products 1, customers 2.
func seedWarehouse(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "warehouse.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)

	ctx := context.Background()

	facts := []warehouse.FactSalesRow{
		{OrderNumber: "SO-1001", ProductKey: 1, CustomerKey: 10, OrderDate: "2024-01-05", SalesAmount: 10, Quantity: 2, Price: 5},
		{OrderNumber: "SO-1001", ProductKey: 1, CustomerKey: 11, OrderDate: "2024-01-05", SalesAmount: 20, Quantity: 1, Price: 20},
		{OrderNumber: "SO-1002", ProductKey: 1, CustomerKey: 10, OrderDate: "2024-02-10", SalesAmount: 30, Quantity: 3, Price: 10},
	}
	for _, f := range facts {
		require.NoError(t, s.WriteFact(ctx, f))
	}

	require.NoError(t, s.WriteCustomer(ctx, warehouse.DimCustomerRow{
		CustomerKey: 10, FirstName: "Ada", Birthdate: "1990-01-01", Country: "Germany",
	}))
	require.NoError(t, s.WriteCustomer(ctx, warehouse.DimCustomerRow{
		CustomerKey: 11, FirstName: "Bo", Birthdate: "1985-06-15", Country: "germany",
	}))
	require.NoError(t, s.WriteProduct(ctx, warehouse.DimProductRow{
		ProductKey: 1, Category: "Bikes", Subcategory: "Road", ProductName: "Widget",
	}))

	require.NoError(t, s.Close())
	return dbPath
}
