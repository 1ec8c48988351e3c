package translator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlquery/internal/models"
)

func TestTranslate_SalesReport(t *testing.T) {
	intent := Translate("Show me sales from last month")

	assert.Equal(t, models.QueryTypeSalesReport, intent.QueryType)
	assert.Equal(t, "last month", intent.Parameters["timePeriod"])
	assert.Empty(t, intent.Error)
	assert.Contains(t, intent.SQL, "JOIN products p ON s.product_id = p.id")
	assert.Contains(t, intent.SQL, "-1 month")
	assert.Contains(t, intent.SQL, "ORDER BY s.sale_date DESC")
}

func TestTranslate_SalesReportPeriods(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		period   string
		expected string
	}{
		{
			name:     "last year window",
			query:    "sales from last year",
			period:   "last year",
			expected: "-1 year",
		},
		{
			name:     "named month january",
			query:    "Show me sales in January",
			period:   "january",
			expected: "'2025-01'",
		},
		{
			name:     "abbreviated month feb",
			query:    "sales in feb",
			period:   "feb",
			expected: "'2025-02'",
		},
		{
			name:     "named month march",
			query:    "sales from March",
			period:   "march",
			expected: "'2025-03'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := Translate(tt.query)

			assert.Equal(t, models.QueryTypeSalesReport, intent.QueryType)
			assert.Equal(t, tt.period, intent.Parameters["timePeriod"])
			assert.Contains(t, intent.SQL, tt.expected)
		})
	}
}

func TestTranslate_SalesReportUnknownPeriod(t *testing.T) {
	intent := Translate("sales from the beginning of time")

	assert.Equal(t, models.QueryTypeSalesReport, intent.QueryType)
	assert.NotContains(t, intent.SQL, "WHERE")
	assert.Contains(t, intent.SQL, "FROM sales s")
}

func TestTranslate_InventoryCheck(t *testing.T) {
	intent := Translate("How many laptops do we have in stock?")

	assert.Equal(t, models.QueryTypeInventoryCheck, intent.QueryType)
	assert.Equal(t, "laptops", intent.Parameters["product"])
	assert.Contains(t, intent.SQL, "FROM products")
	assert.Contains(t, intent.SQL, "name ILIKE '%laptops%'")
	assert.Contains(t, intent.SQL, "ORDER BY inventory DESC")
}

func TestTranslate_InventoryCheckGeneric(t *testing.T) {
	// Asking about products in general applies no name filter.
	intent := Translate("inventory of products")

	assert.Equal(t, models.QueryTypeInventoryCheck, intent.QueryType)
	assert.Equal(t, "products", intent.Parameters["product"])
	assert.NotContains(t, intent.SQL, "WHERE")
}

func TestTranslate_InventoryCheckLoosePhrasing(t *testing.T) {
	intent := Translate("stock of keyboards")

	assert.Equal(t, models.QueryTypeInventoryCheck, intent.QueryType)
	assert.Equal(t, "keyboards", intent.Parameters["product"])
	assert.Contains(t, intent.SQL, "name ILIKE '%keyboards%'")
}

func TestTranslate_TopProducts(t *testing.T) {
	intent := Translate("What are the top 5 products?")

	assert.Equal(t, models.QueryTypeTopProducts, intent.QueryType)
	assert.Equal(t, 5, intent.Parameters["limit"])
	assert.Contains(t, intent.SQL, "LIMIT 5")
	assert.Contains(t, intent.SQL, "GROUP BY p.name")
	assert.Contains(t, intent.SQL, "ORDER BY total_quantity_sold DESC")
}

func TestTranslate_TopProductsCustomLimit(t *testing.T) {
	intent := Translate("list the top 12 selling products")

	assert.Equal(t, models.QueryTypeTopProducts, intent.QueryType)
	assert.Equal(t, 12, intent.Parameters["limit"])
	assert.Contains(t, intent.SQL, "LIMIT 12")
}

func TestTranslate_RevenueReport(t *testing.T) {
	intent := Translate("What is the total revenue for last month?")

	assert.Equal(t, models.QueryTypeRevenueReport, intent.QueryType)
	assert.Equal(t, "last month", intent.Parameters["timePeriod"])
	assert.Contains(t, intent.SQL, "SUM(total_amount) as total_revenue")
	assert.Contains(t, intent.SQL, "COUNT(*) as transaction_count")
	assert.Contains(t, intent.SQL, "-1 month")
}

func TestTranslate_CustomerList(t *testing.T) {
	intent := Translate("Show me the customers from Berlin")

	assert.Equal(t, models.QueryTypeCustomerList, intent.QueryType)
	assert.Equal(t, "berlin", intent.Parameters["location"])
	assert.Contains(t, intent.SQL, "location ILIKE '%berlin%'")
	assert.Contains(t, intent.SQL, "ORDER BY joined_date DESC")
}

func TestTranslate_Unrecognized(t *testing.T) {
	intent := Translate("asdkjfh random text")

	assert.Equal(t, models.QueryTypeUnrecognized, intent.QueryType)
	assert.Equal(t, "Unrecognized query pattern", intent.Error)
	assert.Empty(t, intent.Parameters)
	assert.Contains(t, intent.SQL, "'Cannot parse query' as message")
	assert.Contains(t, intent.SQL, "'Please try a different query' as suggestion")
}

func TestTranslate_CaseInsensitive(t *testing.T) {
	lower := Translate("show me sales from last month")
	upper := Translate("SHOW ME SALES FROM LAST MONTH")

	assert.Equal(t, lower.QueryType, upper.QueryType)
	assert.Equal(t, lower.Parameters, upper.Parameters)
	assert.Equal(t, lower.SQL, upper.SQL)
}

func TestTranslate_QuoteEscaping(t *testing.T) {
	intent := Translate("show me the customers from st. mary's")

	require.Equal(t, models.QueryTypeCustomerList, intent.QueryType)
	assert.Contains(t, intent.SQL, "st. mary''s")
	assert.Equal(t, 1, strings.Count(intent.SQL, "''"))
}

func TestExplain(t *testing.T) {
	explanation := Explain("Show me sales from last month")

	assert.Equal(t, "Show me sales from last month", explanation.OriginalQuery)
	assert.Equal(t, models.QueryTypeSalesReport, explanation.InterpretedAs)
	assert.Equal(t, "last month", explanation.Parameters["timePeriod"])
	assert.NotContains(t, explanation.SQLQuery, "\n")
	assert.NotContains(t, explanation.SQLQuery, "  ")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		valid     bool
		queryType models.QueryType
		features  []string
	}{
		{
			name:      "recognized sales query",
			query:     "sales from last month",
			valid:     true,
			queryType: models.QueryTypeSalesReport,
			features:  []string{"timePeriod"},
		},
		{
			name:      "recognized top products query",
			query:     "show me the top 3 products",
			valid:     true,
			queryType: models.QueryTypeTopProducts,
			features:  []string{"limit"},
		},
		{
			name:      "unrecognized query",
			query:     "please do something",
			valid:     false,
			queryType: models.QueryTypeUnrecognized,
			features:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)

			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.queryType, result.QueryType)
			assert.Equal(t, tt.features, result.SupportedFeatures)
			if tt.valid {
				assert.Equal(t, "This query can be processed.", result.Feedback)
			} else {
				assert.Equal(t, "This query cannot be processed. Please try a different format or topic.", result.Feedback)
			}
		})
	}
}

func TestNormalizeSQL(t *testing.T) {
	normalized := NormalizeSQL("\n  SELECT   name\n  FROM products\n")
	assert.Equal(t, "SELECT name FROM products", normalized)
}
