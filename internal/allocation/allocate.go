package allocation

import (
	"math"

	"overtime-engine/internal/policy"
)

// Result is the capped allocation for one employee's quarter. Values are
// month-ordered; index 0 is the first month of the quarter.
type Result struct {
	// Hours is the corrected input the allocator consumed.
	Hours [3]float64
	// PreCap is the month-cap-only credit, before the quarter allowance.
	PreCap [3]float64
	// Credit is the final credited hours per month.
	Credit [3]float64
	// Cume is the running cumulative ladder, Cume[i] = Credit[0]+...+Credit[i].
	Cume [3]float64
	// Remainder is the unconsumed quarter allowance after month 3.
	Remainder float64

	// MonthCapHit marks months the month cap alone reduced.
	MonthCapHit [3]bool
	// QuarterCapHit marks months the carry-forward allowance reduced below
	// their month-cap-only credit. Never set for month 1, which has the
	// whole quarter budget available.
	QuarterCapHit [3]bool
}

// Allocate applies the per-month cap, then the per-quarter cap with
// carry-forward. Month order is significant: each month's allowance is
// what the earlier months left of the quarter budget, so the loop is a
// fold carrying the cumulative credit.
func Allocate(p policy.Policy, v [3]float64) Result {
	res := Result{Hours: v}

	var cume float64
	for i, h := range v {
		pre := math.Min(h, p.MonthCap)
		credit := pre
		if i > 0 {
			allowance := math.Max(0, p.QuarterCap-cume)
			credit = math.Min(credit, allowance)
		}
		// Negative or zero input settles at zero credit here.
		credit = math.Max(0, credit)
		cume += credit

		res.PreCap[i] = pre
		res.Credit[i] = credit
		res.Cume[i] = cume
		res.MonthCapHit[i] = h > pre
		res.QuarterCapHit[i] = credit < pre
	}

	res.Remainder = math.Max(0, p.QuarterCap-cume)
	return res
}
