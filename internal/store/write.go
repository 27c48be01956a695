package store

import (
	"context"
	"fmt"

	"github.com/roach88/martlens/internal/warehouse"
)

// WriteFact inserts a sales line item. Line items are append-only: the
// fact relation has no uniqueness constraint, one order may accumulate
// any number of rows.
func (s *Store) WriteFact(ctx context.Context, f warehouse.FactSalesRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fact_sales
		(order_number, product_key, customer_key, order_date, sales_amount, quantity, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		f.OrderNumber,
		f.ProductKey,
		f.CustomerKey,
		f.OrderDate,
		f.SalesAmount,
		f.Quantity,
		f.Price,
	)
	if err != nil {
		return fmt.Errorf("write fact: %w", err)
	}
	return nil
}

// WriteCustomer upserts a customer dimension row keyed by customer_key.
// Re-loading a customer refreshes its descriptive attributes.
func (s *Store) WriteCustomer(ctx context.Context, c warehouse.DimCustomerRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dim_customers (customer_key, first_name, birthdate, country)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(customer_key) DO UPDATE SET
			first_name = excluded.first_name,
			birthdate = excluded.birthdate,
			country = excluded.country
	`,
		c.CustomerKey,
		c.FirstName,
		c.Birthdate,
		c.Country,
	)
	if err != nil {
		return fmt.Errorf("write customer: %w", err)
	}
	return nil
}

// WriteProduct upserts a product dimension row keyed by product_key.
func (s *Store) WriteProduct(ctx context.Context, p warehouse.DimProductRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dim_products (product_key, category, subcategory, product_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product_key) DO UPDATE SET
			category = excluded.category,
			subcategory = excluded.subcategory,
			product_name = excluded.product_name
	`,
		p.ProductKey,
		p.Category,
		p.Subcategory,
		p.ProductName,
	)
	if err != nil {
		return fmt.Errorf("write product: %w", err)
	}
	return nil
}
