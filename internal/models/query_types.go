// internal/models/query_types.go
package models

// QueryType identifies the category a natural-language query was translated
// into. The set is closed: five recognized categories plus two failure
// sentinels.
type QueryType string

const (
	QueryTypeSalesReport    QueryType = "sales_report"
	QueryTypeInventoryCheck QueryType = "inventory_check"
	QueryTypeTopProducts    QueryType = "top_products"
	QueryTypeRevenueReport  QueryType = "revenue_report"
	QueryTypeCustomerList   QueryType = "customer_list"

	// Failure sentinels. QueryTypeUnrecognized means no rule beyond the
	// catch-all matched; QueryTypeError should not occur given total rule
	// coverage and exists as a defensive fallback.
	QueryTypeUnrecognized QueryType = "unrecognized"
	QueryTypeError        QueryType = "error"
)

// IsRecognized reports whether the type is one of the five real categories.
func (t QueryType) IsRecognized() bool {
	switch t {
	case QueryTypeSalesReport, QueryTypeInventoryCheck, QueryTypeTopProducts,
		QueryTypeRevenueReport, QueryTypeCustomerList:
		return true
	}
	return false
}

// Intent is the structured outcome of translating one natural-language
// phrase: category, extracted parameters, generated SQL and a human-readable
// explanation. Error is set exactly when the type is a failure sentinel; SQL
// still holds a valid placeholder query in that case so downstream execution
// never needs a nil check.
type Intent struct {
	QueryType   QueryType              `json:"queryType"`
	Parameters  map[string]interface{} `json:"parameters"`
	SQL         string                 `json:"sql"`
	Explanation string                 `json:"explanation"`
	Error       string                 `json:"error,omitempty"`
}

// Explanation is the derived view returned by the explain endpoint.
type Explanation struct {
	OriginalQuery string                 `json:"originalQuery"`
	InterpretedAs QueryType              `json:"interpretedAs"`
	Parameters    map[string]interface{} `json:"parameters"`
	Explanation   string                 `json:"explanation"`
	SQLQuery      string                 `json:"sqlQuery"`
}

// Validation is the derived view returned by the validate endpoint.
type Validation struct {
	Valid             bool      `json:"valid"`
	QueryType         QueryType `json:"queryType"`
	SupportedFeatures []string  `json:"supportedFeatures"`
	Feedback          string    `json:"feedback"`
}
