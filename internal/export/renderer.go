// Package export lays allocation results into a formatted workbook for
// download. It treats the engine's adjustment flags as opaque booleans
// that only drive presentation.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"overtime-engine/internal/model"
)

const (
	allocationSheet = "Allocation"
	summarySheet    = "Summary"

	maxColWidth = 60
	minColWidth = 12
)

var headerFill = []string{"FFF2CC"}

// Render builds the report workbook: one row per employee with credited
// hours, the cumulative ladder, the remaining allowance and the remark,
// plus a summary sheet shown first when the file opens.
func Render(resp *model.AllocationResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", allocationSheet); err != nil {
		return nil, err
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return nil, err
	}

	meta := resp.CalculationMetadata
	labels := monthLabels(meta.Quarter)

	header := []string{
		"No.", "Rank", "Name",
		labels[0] + " (h)", labels[1] + " (h)", labels[2] + " (h)",
		labels[0] + " cum.", labels[1] + " cum.", labels[2] + " cum.",
		"Remaining (h)", "Remark",
	}
	for c, title := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(allocationSheet, cell, title)
	}
	_ = f.SetCellStyle(allocationSheet, "A1", "K1", styles.header)

	records := resp.CalculationResult.Records
	for i, rec := range records {
		row := i + 2
		writeRecord(f, styles, meta.MonthCap, row, rec)
	}

	lastDataRow := len(records) + 1
	totalRow := lastDataRow + 1
	_ = f.SetCellValue(allocationSheet, fmt.Sprintf("C%d", totalRow), "Total")
	for _, col := range []string{"D", "E", "F"} {
		cell := fmt.Sprintf("%s%d", col, totalRow)
		if lastDataRow >= 2 {
			_ = f.SetCellFormula(allocationSheet, cell, fmt.Sprintf("SUM(%s2:%s%d)", col, col, lastDataRow))
		} else {
			_ = f.SetCellValue(allocationSheet, cell, 0)
		}
		_ = f.SetCellStyle(allocationSheet, cell, cell, styles.total)
	}
	_ = f.SetCellStyle(allocationSheet, fmt.Sprintf("C%d", totalRow), fmt.Sprintf("C%d", totalRow), styles.total)

	// Exhausted quarters stand out: zero remaining allowance gets flagged.
	if lastDataRow >= 2 {
		_ = f.SetConditionalFormat(allocationSheet, fmt.Sprintf("J2:J%d", lastDataRow),
			[]excelize.ConditionalFormatOptions{
				{Type: "cell", Criteria: "==", Value: "0", Format: &styles.exhausted},
			})
	}

	autofit(f, allocationSheet, header, records)

	if err := writeSummary(f, styles, resp); err != nil {
		return nil, err
	}
	return f, nil
}

func writeRecord(f *excelize.File, styles styleSet, monthCap float64, row int, rec model.EmployeeAllocation) {
	_ = f.SetCellValue(allocationSheet, fmt.Sprintf("A%d", row), rec.SerialNo)
	_ = f.SetCellValue(allocationSheet, fmt.Sprintf("B%d", row), rec.Rank)
	_ = f.SetCellValue(allocationSheet, fmt.Sprintf("C%d", row), rec.Name)

	credits := [3]float64{rec.Credit1, rec.Credit2, rec.Credit3}
	adjusted := [3]bool{
		rec.Adj1MonthCap,
		rec.Adj2MonthCap || rec.Adj2QuarterCap,
		rec.Adj3MonthCap || rec.Adj3QuarterCap,
	}
	for i := 0; i < 3; i++ {
		cell, _ := excelize.CoordinatesToCellName(4+i, row)
		_ = f.SetCellValue(allocationSheet, cell, credits[i])
		if style := styles.credit(credits[i] == monthCap, adjusted[i]); style != 0 {
			_ = f.SetCellStyle(allocationSheet, cell, cell, style)
		}
	}

	cumes := [3]float64{rec.Cume1, rec.Cume2, rec.Cume3}
	for i := 0; i < 3; i++ {
		cell, _ := excelize.CoordinatesToCellName(7+i, row)
		_ = f.SetCellValue(allocationSheet, cell, cumes[i])
	}

	_ = f.SetCellValue(allocationSheet, fmt.Sprintf("J%d", row), rec.Remainder)
	_ = f.SetCellValue(allocationSheet, fmt.Sprintf("K%d", row), rec.Remark)
}

func writeSummary(f *excelize.File, styles styleSet, resp *model.AllocationResponse) error {
	idx, err := f.NewSheet(summarySheet)
	if err != nil {
		return err
	}

	meta := resp.CalculationMetadata
	records := resp.CalculationResult.Records

	adjustments := 0
	for _, rec := range records {
		if rec.Adj1MonthCap || rec.Adj2MonthCap || rec.Adj3MonthCap ||
			rec.Adj2QuarterCap || rec.Adj3QuarterCap {
			adjustments++
		}
	}

	rows := []struct {
		label string
		value any
	}{
		{"Calculation ID", meta.CalculationID},
		{"Generated", meta.CalculationCompletedAt},
		{"Period", fmt.Sprintf("%d Q%d", meta.Year, meta.Quarter)},
		{"Month cap (h)", meta.MonthCap},
		{"Quarter cap (h)", meta.QuarterCap},
		{"Employees", len(records)},
		{"Employees adjusted", adjustments},
	}
	for i, r := range rows {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), r.label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), r.value)
		_ = f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", i+1), fmt.Sprintf("A%d", i+1), styles.summaryLabel)
	}

	totalRow := len(rows) + 1
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", totalRow), "Total credited (h)")
	_ = f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("A%d", totalRow), styles.summaryLabel)
	if len(records) > 0 {
		_ = f.SetCellFormula(summarySheet, fmt.Sprintf("B%d", totalRow),
			fmt.Sprintf("SUM(%s!D2:F%d)", allocationSheet, len(records)+1))
	} else {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", totalRow), 0)
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	// The summary is the first thing the reader should see.
	f.SetActiveSheet(idx)
	return nil
}

// autofit sizes columns to their longest content, the way the source
// application did it.
func autofit(f *excelize.File, sheet string, header []string, records []model.EmployeeAllocation) {
	widths := make([]int, len(header))
	for c, title := range header {
		widths[c] = len(title)
	}
	grow := func(c int, s string) {
		if len(s) > widths[c] {
			widths[c] = len(s)
		}
	}
	for _, rec := range records {
		grow(0, rec.SerialNo)
		grow(1, rec.Rank)
		grow(2, rec.Name)
		grow(10, rec.Remark)
	}
	for c, w := range widths {
		w += 2
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(sheet, col, col, float64(w))
	}
}

// Filename suggests a download name with the generation timestamp.
func Filename(year, quarter int, now time.Time) string {
	return fmt.Sprintf("overtime_allocation_%dQ%d_%s.xlsx", year, quarter, now.Format("060102_1504"))
}

func monthLabels(quarter int) [3]string {
	var labels [3]string
	for i := 0; i < 3; i++ {
		m := time.Month(3*(quarter-1) + 1 + i)
		labels[i] = m.String()[:3]
	}
	return labels
}
