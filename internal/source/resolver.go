// Package source reads the raw overtime source table out of an uploaded
// workbook and resolves its flexibly-named columns. Everything that can
// go wrong with a file belongs here, upstream of the allocation engine.
package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	json "github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"overtime-engine/internal/model"
)

// headerScanRows is how deep we look for the header row; source exports
// routinely carry a title block above the table.
const headerScanRows = 12

// Row is one employee line located in the source table. Raw values are
// kept as cell text; normalization is the engine's job.
type Row struct {
	SerialNo  string
	Rank      string
	Name      string
	RawMonth1 string
	RawMonth2 string
	RawMonth3 string
}

// Report converts the row to the engine's wire shape.
func (r Row) Report() model.RawMonthlyReport {
	return model.RawMonthlyReport{
		SerialNo:  r.SerialNo,
		Rank:      r.Rank,
		Name:      r.Name,
		RawMonth1: quoteCell(r.RawMonth1),
		RawMonth2: quoteCell(r.RawMonth2),
		RawMonth3: quoteCell(r.RawMonth3),
	}
}

func quoteCell(s string) model.RawCell {
	b, _ := json.Marshal(s)
	return model.RawCell(b)
}

// Parse reads the workbook and returns one Row per employee for the
// given quarter. Rows with a blank name are excluded here so the engine
// never sees them.
func Parse(data []byte, filename string, quarter int) ([]Row, error) {
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("quarter must be 1-4, got %d", quarter)
	}

	grid, err := readGrid(data, filename)
	if err != nil {
		return nil, err
	}

	headerIdx, cols, err := resolveColumns(grid, quarter)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for _, line := range grid[headerIdx+1:] {
		name := cellValue(line, cols.name)
		if name == "" {
			// Identity-less lines (trailing totals, spacer rows) are the
			// resolver's responsibility to drop.
			continue
		}
		rows = append(rows, Row{
			SerialNo:  cellValue(line, cols.serial),
			Rank:      cellValue(line, cols.rank),
			Name:      name,
			RawMonth1: cellValue(line, cols.months[0]),
			RawMonth2: cellValue(line, cols.months[1]),
			RawMonth3: cellValue(line, cols.months[2]),
		})
	}
	return rows, nil
}

// readGrid loads every cell as text, picking the reader by extension the
// way legacy exports require.
func readGrid(data []byte, filename string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("open xls: %w", err)
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	}
}

type columns struct {
	serial int
	rank   int
	name   int
	months [3]int
}

func resolveColumns(grid [][]string, quarter int) (int, columns, error) {
	limit := headerScanRows
	if len(grid) < limit {
		limit = len(grid)
	}

	for r := 0; r < limit; r++ {
		cols, ok := matchHeaderRow(grid[r], quarter)
		if !ok {
			continue
		}
		for i, c := range cols.months {
			if c < 0 {
				return 0, columns{}, fmt.Errorf("no column found for month %d of quarter %d", quarterMonth(quarter, i), quarter)
			}
		}
		return r, cols, nil
	}
	return 0, columns{}, fmt.Errorf("header row not found in first %d rows", limit)
}

func matchHeaderRow(row []string, quarter int) (columns, bool) {
	cols := columns{serial: -1, rank: -1, name: -1, months: [3]int{-1, -1, -1}}
	for c, raw := range row {
		h := normalizeHeader(raw)
		if h == "" {
			continue
		}
		switch {
		case cols.serial < 0 && isSerialHeader(h):
			cols.serial = c
		case cols.rank < 0 && isRankHeader(h):
			cols.rank = c
		case cols.name < 0 && isNameHeader(h):
			cols.name = c
		default:
			for i := 0; i < 3; i++ {
				if cols.months[i] < 0 && matchMonthHeader(h, quarterMonth(quarter, i), i) {
					cols.months[i] = c
					break
				}
			}
		}
	}
	// A header row needs at least the identity columns to count as one.
	return cols, cols.serial >= 0 && cols.name >= 0
}

func quarterMonth(quarter, idx int) int {
	return 3*(quarter-1) + 1 + idx
}

func normalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(header))), " ")
}

func isSerialHeader(h string) bool {
	switch h {
	case "no", "no.", "#", "seq", "serial", "serial no", "serial no.", "serial number":
		return true
	}
	return false
}

func isRankHeader(h string) bool {
	switch h {
	case "rank", "grade", "position", "title", "class":
		return true
	}
	return false
}

func isNameHeader(h string) bool {
	switch h {
	case "name", "employee", "employee name", "full name":
		return true
	}
	return false
}

var ordinalMonth = [3][]string{
	{"first month", "1st month", "month 1 of quarter"},
	{"second month", "2nd month", "month 2 of quarter"},
	{"third month", "3rd month", "month 3 of quarter"},
}

var monthDateFormats = []string{
	"2006-01",
	"2006/01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"2006-01-02",
}

// matchMonthHeader accepts the naming schemes seen in the field: a bare
// month number, "m5" / "month 5", the month name, the ordinal position
// within the quarter, or a date string.
func matchMonthHeader(h string, month, idx int) bool {
	if n, err := strconv.Atoi(h); err == nil {
		return n == month
	}

	num := strconv.Itoa(month)
	if h == "m"+num || h == "month "+num {
		return true
	}

	full := strings.ToLower(time.Month(month).String())
	if h == full || h == full[:3] {
		return true
	}

	for _, o := range ordinalMonth[idx] {
		if h == o {
			return true
		}
	}

	cased := titleCase(h)
	for _, format := range monthDateFormats {
		if parsed, err := time.Parse(format, cased); err == nil {
			return int(parsed.Month()) == month
		}
	}
	return false
}

// titleCase restores "jan 2006" to the capitalization time.Parse expects.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
