package warehouse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType_Numeric(t *testing.T) {
	assert.True(t, TypeInteger.Numeric())
	assert.True(t, TypeReal.Numeric())
	assert.False(t, TypeText.Numeric())
	assert.False(t, TypeDate.Numeric())
}

func TestSchema_Column(t *testing.T) {
	s := FactSalesSchema()

	col, ok := s.Column("sales_amount")
	require.True(t, ok)
	assert.Equal(t, TypeReal, col.Type)

	_, ok = s.Column("no_such_column")
	assert.False(t, ok)
}

func TestStarSchemas_FactFirst(t *testing.T) {
	schemas := StarSchemas()
	require.Len(t, schemas, 3)
	assert.Equal(t, RelFactSales, schemas[0].Relation)
	assert.Equal(t, RelDimCustomers, schemas[1].Relation)
	assert.Equal(t, RelDimProducts, schemas[2].Relation)
}

func TestErrorHelpers(t *testing.T) {
	rnf := NewRelationNotFound("gold_fact_sales")
	assert.True(t, IsRelationNotFound(rnf))
	assert.False(t, IsSchemaMismatch(rnf))
	assert.Equal(t, ErrCodeRelationNotFound, CodeOf(rnf))

	// Helpers must see through wrapping.
	wrapped := fmt.Errorf("scan fact relation: %w", NewSchemaMismatch(RelFactSales, "quantity", "unexpected scan type"))
	assert.True(t, IsSchemaMismatch(wrapped))
	assert.Equal(t, ErrCodeSchemaMismatch, CodeOf(wrapped))

	cnf := NewColumnNotFound(RelDimProducts, "color")
	assert.True(t, IsColumnNotFound(cnf))
	assert.Contains(t, cnf.Error(), "COLUMN_NOT_FOUND")
	assert.Contains(t, cnf.Error(), "dim_products")
	assert.Contains(t, cnf.Error(), "color")

	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain error")))
}
