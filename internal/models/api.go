// internal/models/api.go
package models

// QueryMetadata accompanies a successful execution result.
type QueryMetadata struct {
	ResultCount int    `json:"resultCount"`
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
}

// QueryResult is the envelope returned for a processed query. Failure is
// expressed as data: Success false with Error and Message set, never as a
// transport error.
type QueryResult struct {
	Success   bool                     `json:"success"`
	QueryType QueryType                `json:"queryType,omitempty"`
	Data      []map[string]interface{} `json:"data,omitempty"`
	Metadata  *QueryMetadata           `json:"metadata,omitempty"`
	Analysis  *Analysis                `json:"analysis,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Message   string                   `json:"message,omitempty"`
}

// QueryRequest is the body accepted by the query, explain and validate
// endpoints.
type QueryRequest struct {
	Query string `json:"query"`
}

// TableSchema describes one table exposed by the schema endpoint.
type TableSchema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
}

// ColumnSchema is a single column in a TableSchema.
type ColumnSchema struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	Nullable bool   `json:"nullable"`
}
