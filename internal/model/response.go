package model

type AllocationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string  `json:"calculation_id"`
	Year                   int     `json:"year"`
	Quarter                int     `json:"quarter"`
	MonthCap               float64 `json:"month_cap"`
	QuarterCap             float64 `json:"quarter_cap"`
	CalculationStartedAt   string  `json:"calculation_started_at"`
	CalculationCompletedAt string  `json:"calculation_completed_at"`
	CalculationDurationMs  int64   `json:"calculation_duration_ms"`
	CalculationOutcome     string  `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages []AllocationMessage  `json:"messages"`
	Records  []EmployeeAllocation `json:"records"`
}

// EmployeeAllocation pairs the caller-owned identity fields with the
// engine's result for one employee's quarter.
type EmployeeAllocation struct {
	SerialNo string `json:"serial_no"`
	Rank     string `json:"rank"`
	Name     string `json:"name"`

	AllocationResult

	MessageIndexes []int `json:"message_indexes,omitempty"`
}

// AllocationResult is write-once: a re-run with the same raw inputs and
// policy produces a structurally identical value.
type AllocationResult struct {
	// Normalized, anomaly-corrected hours the allocator consumed.
	Hours1 float64 `json:"hours1"`
	Hours2 float64 `json:"hours2"`
	Hours3 float64 `json:"hours3"`

	// Capped credit per month and the running cumulative ladder.
	Credit1 float64 `json:"credit1"`
	Credit2 float64 `json:"credit2"`
	Credit3 float64 `json:"credit3"`
	Cume1   float64 `json:"cume1"`
	Cume2   float64 `json:"cume2"`
	Cume3   float64 `json:"cume3"`

	// Quarter allowance left after month 3, never negative.
	Remainder float64 `json:"remainder"`

	// Month-cap adjustments: the month cap alone reduced the reported figure.
	Adj1MonthCap bool `json:"adj1_month_cap"`
	Adj2MonthCap bool `json:"adj2_month_cap"`
	Adj3MonthCap bool `json:"adj3_month_cap"`
	// Quarter-cap adjustments: the carry-forward allowance reduced the month
	// below its month-cap-only value. Month 1 always has the full allowance.
	Adj2QuarterCap bool `json:"adj2_quarter_cap"`
	Adj3QuarterCap bool `json:"adj3_quarter_cap"`

	Remark string `json:"remark"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
