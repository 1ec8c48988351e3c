// internal/models/analysis.go
package models

// Analysis is the statistical summary computed over a query's result rows.
// Visualization is nil when there is nothing to chart (no rows).
type Analysis struct {
	Summary       string         `json:"summary"`
	Insights      []string       `json:"insights"`
	Visualization *Visualization `json:"visualization"`
}

// Visualization describes a chart a client could render from the result set.
// Bar, pie and line charts carry Labels and Data; the number type carries a
// single formatted Value instead.
type Visualization struct {
	Type   string    `json:"type"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels,omitempty"`
	Data   []float64 `json:"data,omitempty"`
	Value  string    `json:"value,omitempty"`
}

const (
	VisualizationBar    = "bar"
	VisualizationPie    = "pie"
	VisualizationLine   = "line"
	VisualizationNumber = "number"
)
