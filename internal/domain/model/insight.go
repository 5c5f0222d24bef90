package model

// Severity ranks an insight for presentation.
type Severity string

// Insight severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Insight is a single risk warning or strategic recommendation.
type Insight struct {
	Severity Severity           `json:"severity"`
	Kind     string             `json:"kind"`
	Team     string             `json:"team,omitempty"` // empty for set-wide recommendations
	Message  string             `json:"message"`
	Values   map[string]float64 `json:"values,omitempty"`
}
