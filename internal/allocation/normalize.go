package allocation

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"overtime-engine/internal/model"
)

// NormalizeCell turns a raw source-table cell into an hour count. The
// second return is false only for a non-blank value that does not parse;
// the value is 0 in that case, never an error. Malformed input means
// "no overtime reported", not a failure.
func NormalizeCell(raw model.RawCell) (float64, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, true
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		return NormalizeString(s)
	}
	return NormalizeString(trimmed)
}

// NormalizeString parses a human-entered figure: thousands separators and
// surrounding whitespace are stripped, blanks parse to 0. A negative
// result is returned as-is; the allocator clamps downstream.
func NormalizeString(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
