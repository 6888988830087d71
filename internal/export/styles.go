package export

import "github.com/xuri/excelize/v2"

// styleSet holds the style IDs the renderer reuses across rows. Credit
// cells come in three non-default variants: at-cap highlight, adjustment
// bold, and both. Plain cells keep the default style, whose General
// format already renders hours without trailing zeros.
type styleSet struct {
	header       int
	total        int
	summaryLabel int
	exhausted    int

	creditAtCap    int
	creditAdjusted int
	creditBoth     int
}

// credit picks the style for a credit cell; 0 is the workbook default.
func (s styleSet) credit(atCap, adjusted bool) int {
	switch {
	case atCap && adjusted:
		return s.creditBoth
	case atCap:
		return s.creditAtCap
	case adjusted:
		return s.creditAdjusted
	default:
		return 0
	}
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: headerFill},
	}); err != nil {
		return s, err
	}

	if s.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, err
	}

	if s.summaryLabel, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, err
	}

	if s.exhausted, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC0CB"}},
	}); err != nil {
		return s, err
	}

	if s.creditAtCap, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: headerFill},
	}); err != nil {
		return s, err
	}
	if s.creditAdjusted, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FF0000"},
	}); err != nil {
		return s, err
	}
	if s.creditBoth, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FF0000"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: headerFill},
	}); err != nil {
		return s, err
	}

	return s, nil
}
