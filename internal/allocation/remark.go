package allocation

import (
	"strconv"
	"strings"
)

// Remark renders the annotation attached to every allocation: the
// remaining quarterly allowance first, then one clause per adjustment in
// fixed order (month caps 1-3, then quarter-cap reductions for months 2
// and 3).
func Remark(r Result) string {
	var b strings.Builder
	b.WriteString("remaining allowance ")
	b.WriteString(FormatHours(r.Remainder))
	b.WriteString(" h")

	for i := 0; i < 3; i++ {
		if r.MonthCapHit[i] {
			writeClause(&b, "month cap", r.Hours[i])
		}
	}
	for i := 1; i < 3; i++ {
		if r.QuarterCapHit[i] {
			writeClause(&b, "quarter cap", r.PreCap[i])
		}
	}

	return b.String()
}

func writeClause(b *strings.Builder, scope string, original float64) {
	b.WriteString("; ")
	b.WriteString(scope)
	b.WriteString(" exceeded — adjusted (original: ")
	b.WriteString(FormatHours(original))
	b.WriteString(" h)")
}

// FormatHours renders an hour count without trailing zeros (57, 33.5).
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
