package model

import "encoding/json"

// RawCell is a cell value exactly as it arrived from the source table:
// a JSON number, a (possibly comma-formatted) string, or null/absent.
type RawCell = json.RawMessage

type AllocationRequest struct {
	Year      int                `json:"year"`
	Quarter   int                `json:"quarter"`
	Policy    *PolicyOverride    `json:"policy,omitempty"`
	Employees []RawMonthlyReport `json:"employees"`
}

// PolicyOverride replaces the configured caps for a single calculation.
type PolicyOverride struct {
	MonthCap   *float64 `json:"month_cap,omitempty"`
	QuarterCap *float64 `json:"quarter_cap,omitempty"`
}

// RawMonthlyReport is one employee's quarter as entered in the source
// table. Identity fields are opaque to the engine.
type RawMonthlyReport struct {
	SerialNo  string  `json:"serial_no"`
	Rank      string  `json:"rank"`
	Name      string  `json:"name"`
	RawMonth1 RawCell `json:"raw_month1"`
	RawMonth2 RawCell `json:"raw_month2"`
	RawMonth3 RawCell `json:"raw_month3"`
}
