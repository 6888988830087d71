package allocation

import (
	"math"

	"overtime-engine/internal/policy"
)

// CorrectCumulative repairs the common data-entry mistake of writing the
// running total-to-date instead of the month's incremental hours.
//
// Month 2 is suspect when it is at least month 1, month 3 is exactly zero
// (entry stopped after the running sum), and it clears the month cap by
// the configured factor. Month 3 is suspect when it exceeds the sum of
// the first two months and clears the cap by its own factor; that rule
// is evaluated against the possibly-already-corrected month 2.
func CorrectCumulative(p policy.Policy, v [3]float64) (corrected [3]float64, m2, m3 bool) {
	corrected = v

	if corrected[1] >= corrected[0] && corrected[2] == 0 &&
		corrected[1] > p.MonthCap*p.M2CumulativeFactor {
		corrected[1] = math.Max(0, corrected[1]-corrected[0])
		m2 = true
	}

	if corrected[2] > corrected[0]+corrected[1] &&
		corrected[2] > p.MonthCap*p.M3CumulativeFactor {
		corrected[2] = math.Max(0, corrected[2]-(corrected[0]+corrected[1]))
		m3 = true
	}

	return corrected, m2, m3
}
