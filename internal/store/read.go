package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

// Compile-time check: Store implements the accessor contract.
var _ warehouse.Accessor = (*Store)(nil)

// isoDate scans a DATE column into ISO-8601 text (YYYY-MM-DD). The driver
// decodes DATE declared types to time.Time; assigning that to a plain
// string field would yield RFC3339, breaking the row-type date contract.
type isoDate string

func (d *isoDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = isoDate(v.Format("2006-01-02"))
	case string:
		*d = isoDate(v)
	case []byte:
		*d = isoDate(v)
	default:
		return fmt.Errorf("unsupported date scan type: %T", src)
	}
	return nil
}

// Relations returns the schemas of all user tables, star relations first
// (fact, then dimensions), remaining tables in name order. The order is
// stable across calls.
func (s *Store) Relations(ctx context.Context) ([]warehouse.Schema, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	ordered := make([]string, 0, len(names))
	for _, expected := range warehouse.StarSchemas() {
		if present[expected.Relation] {
			ordered = append(ordered, expected.Relation)
			present[expected.Relation] = false
		}
	}
	for _, name := range names {
		if present[name] {
			ordered = append(ordered, name)
		}
	}

	schemas := make([]warehouse.Schema, 0, len(ordered))
	for _, name := range ordered {
		schema, err := s.Schema(ctx, name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

// Schema returns the shape of one relation, derived from the live table.
//
// For the three star relations the live shape is checked against the
// expected row type; a missing or extra required field is a schema
// mismatch, which is fatal for every scan of that relation.
func (s *Store) Schema(ctx context.Context, relation string) (warehouse.Schema, error) {
	ok, err := s.tableExists(ctx, relation)
	if err != nil {
		return warehouse.Schema{}, err
	}
	if !ok {
		return warehouse.Schema{}, warehouse.NewRelationNotFound(relation)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(relation)))
	if err != nil {
		return warehouse.Schema{}, fmt.Errorf("table info for %q: %w", relation, err)
	}
	defer rows.Close()

	schema := warehouse.Schema{Relation: relation}
	for rows.Next() {
		var (
			cid       int
			name      string
			declType  string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dfltValue, &pk); err != nil {
			return warehouse.Schema{}, fmt.Errorf("scan table info: %w", err)
		}
		schema.Columns = append(schema.Columns, warehouse.Column{
			Name: name,
			Type: mapColumnType(declType),
		})
	}
	if err := rows.Err(); err != nil {
		return warehouse.Schema{}, fmt.Errorf("iterate table info: %w", err)
	}

	if err := checkExpectedShape(schema); err != nil {
		return warehouse.Schema{}, err
	}
	return schema, nil
}

// Count returns the row count of a relation without materializing rows.
func (s *Store) Count(ctx context.Context, relation string) (int64, error) {
	ok, err := s.tableExists(ctx, relation)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, warehouse.NewRelationNotFound(relation)
	}

	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(relation))
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %q: %w", relation, err)
	}
	return n, nil
}

// ScanColumn streams one projected column in rowid order. The projection
// never materializes whole rows. The column is resolved against the schema
// before querying, so an unknown column fails before any row is read.
func (s *Store) ScanColumn(ctx context.Context, relation, column string, fn func(value.Value) error) error {
	schema, err := s.Schema(ctx, relation)
	if err != nil {
		return err
	}
	if _, ok := schema.Column(column); !ok {
		return warehouse.NewColumnNotFound(relation, column)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid ASC", quoteIdent(column), quoteIdent(relation))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("scan %s.%s: %w", relation, column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan %s.%s: %w", relation, column, err)
		}
		v, err := value.FromSQL(raw)
		if err != nil {
			return warehouse.NewSchemaMismatch(relation, column, err.Error())
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s.%s: %w", relation, column, err)
	}
	return nil
}

// ScanFacts streams typed fact rows. The relation shape is verified first,
// so a reshaped table surfaces as a schema mismatch, not a scan error.
func (s *Store) ScanFacts(ctx context.Context, fn func(warehouse.FactSalesRow) error) error {
	if _, err := s.Schema(ctx, warehouse.RelFactSales); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_number, product_key, customer_key, order_date, sales_amount, quantity, price
		FROM fact_sales
		ORDER BY rowid ASC
	`)
	if err != nil {
		return fmt.Errorf("query fact_sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f warehouse.FactSalesRow
			d isoDate
		)
		if err := rows.Scan(&f.OrderNumber, &f.ProductKey, &f.CustomerKey, &d, &f.SalesAmount, &f.Quantity, &f.Price); err != nil {
			return warehouse.NewSchemaMismatch(warehouse.RelFactSales, "", err.Error())
		}
		f.OrderDate = string(d)
		if err := fn(f); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate fact_sales: %w", err)
	}
	return nil
}

// ScanCustomers streams typed customer dimension rows.
func (s *Store) ScanCustomers(ctx context.Context, fn func(warehouse.DimCustomerRow) error) error {
	if _, err := s.Schema(ctx, warehouse.RelDimCustomers); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_key, first_name, birthdate, country
		FROM dim_customers
		ORDER BY customer_key ASC
	`)
	if err != nil {
		return fmt.Errorf("query dim_customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c warehouse.DimCustomerRow
			d isoDate
		)
		if err := rows.Scan(&c.CustomerKey, &c.FirstName, &d, &c.Country); err != nil {
			return warehouse.NewSchemaMismatch(warehouse.RelDimCustomers, "", err.Error())
		}
		c.Birthdate = string(d)
		if err := fn(c); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate dim_customers: %w", err)
	}
	return nil
}

// ScanProducts streams typed product dimension rows.
func (s *Store) ScanProducts(ctx context.Context, fn func(warehouse.DimProductRow) error) error {
	if _, err := s.Schema(ctx, warehouse.RelDimProducts); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_key, category, subcategory, product_name
		FROM dim_products
		ORDER BY product_key ASC
	`)
	if err != nil {
		return fmt.Errorf("query dim_products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p warehouse.DimProductRow
		if err := rows.Scan(&p.ProductKey, &p.Category, &p.Subcategory, &p.ProductName); err != nil {
			return warehouse.NewSchemaMismatch(warehouse.RelDimProducts, "", err.Error())
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate dim_products: %w", err)
	}
	return nil
}

// checkExpectedShape compares a live star relation against its expected
// row type. Unknown relations pass through - custom catalogs may bind any
// table.
func checkExpectedShape(schema warehouse.Schema) error {
	var expected warehouse.Schema
	switch schema.Relation {
	case warehouse.RelFactSales:
		expected = warehouse.FactSalesSchema()
	case warehouse.RelDimCustomers:
		expected = warehouse.DimCustomersSchema()
	case warehouse.RelDimProducts:
		expected = warehouse.DimProductsSchema()
	default:
		return nil
	}

	for _, want := range expected.Columns {
		if _, ok := schema.Column(want.Name); !ok {
			return warehouse.NewSchemaMismatch(schema.Relation, want.Name, "required field missing from relation")
		}
	}
	if len(schema.Columns) != len(expected.Columns) {
		return warehouse.NewSchemaMismatch(schema.Relation, "", "relation has extra fields beyond the expected row type")
	}
	return nil
}

// mapColumnType maps a SQLite declared type to the accessor's column types.
func mapColumnType(declType string) warehouse.ColumnType {
	switch strings.ToUpper(declType) {
	case "INTEGER", "INT", "BIGINT":
		return warehouse.TypeInteger
	case "REAL", "FLOAT", "DOUBLE", "NUMERIC", "DECIMAL":
		return warehouse.TypeReal
	case "DATE", "DATETIME":
		return warehouse.TypeDate
	default:
		return warehouse.TypeText
	}
}

// quoteIdent quotes a SQL identifier. Identifiers are resolved against the
// schema before use, so this guards quoting, not injection.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
