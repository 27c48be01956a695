package warehouse

// Default relation labels. These are catalog-assigned names, not fixed
// identifiers - a custom measure catalog may bind any relation the
// warehouse exposes.
const (
	RelFactSales    = "fact_sales"
	RelDimCustomers = "dim_customers"
	RelDimProducts  = "dim_products"
)

// FactSalesRow is one sales line item.
//
// OrderNumber is NOT unique per row: one order may span multiple line items,
// so order counts must be distinct-counts, never row counts.
// SalesAmount is logically Quantity * Price; the engine consumes the
// invariant but does not enforce it.
type FactSalesRow struct {
	OrderNumber string  `json:"order_number"`
	ProductKey  int64   `json:"product_key"`
	CustomerKey int64   `json:"customer_key"`
	OrderDate   string  `json:"order_date"` // ISO-8601 (YYYY-MM-DD)
	SalesAmount float64 `json:"sales_amount"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

// DimCustomerRow is one customer dimension row. CustomerKey is unique.
// Country is categorical but not normalized - variant spellings may occur.
type DimCustomerRow struct {
	CustomerKey int64  `json:"customer_key"`
	FirstName   string `json:"first_name"`
	Birthdate   string `json:"birthdate"` // ISO-8601 (YYYY-MM-DD)
	Country     string `json:"country"`
}

// DimProductRow is one product dimension row. ProductKey is unique, but
// category/subcategory/product_name form a non-unique combination.
type DimProductRow struct {
	ProductKey  int64  `json:"product_key"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	ProductName string `json:"product_name"`
}

// FactSalesSchema is the expected shape of the fact relation.
func FactSalesSchema() Schema {
	return Schema{
		Relation: RelFactSales,
		Columns: []Column{
			{Name: "order_number", Type: TypeText},
			{Name: "product_key", Type: TypeInteger},
			{Name: "customer_key", Type: TypeInteger},
			{Name: "order_date", Type: TypeDate},
			{Name: "sales_amount", Type: TypeReal},
			{Name: "quantity", Type: TypeInteger},
			{Name: "price", Type: TypeReal},
		},
	}
}

// DimCustomersSchema is the expected shape of the customer dimension.
func DimCustomersSchema() Schema {
	return Schema{
		Relation: RelDimCustomers,
		Columns: []Column{
			{Name: "customer_key", Type: TypeInteger},
			{Name: "first_name", Type: TypeText},
			{Name: "birthdate", Type: TypeDate},
			{Name: "country", Type: TypeText},
		},
	}
}

// DimProductsSchema is the expected shape of the product dimension.
func DimProductsSchema() Schema {
	return Schema{
		Relation: RelDimProducts,
		Columns: []Column{
			{Name: "product_key", Type: TypeInteger},
			{Name: "category", Type: TypeText},
			{Name: "subcategory", Type: TypeText},
			{Name: "product_name", Type: TypeText},
		},
	}
}

// StarSchemas returns the expected shapes of all three relations,
// fact first, in a stable order.
func StarSchemas() []Schema {
	return []Schema{
		FactSalesSchema(),
		DimCustomersSchema(),
		DimProductsSchema(),
	}
}
