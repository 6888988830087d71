package source

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseResolvesSourceTable(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Overtime report 2026 Q2"},
		{},
		{"No.", "Rank", "Name", "Apr", "May", "Jun"},
		{1, "7", "Kim", 40, 30, 20},
		{2, "6", "Lee", "12,500", "", "n/a"},
		{"", "", "", 100, 100, 100}, // totals line, no identity
	})

	rows, err := Parse(data, "report.xlsx", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, Row{
		SerialNo: "1", Rank: "7", Name: "Kim",
		RawMonth1: "40", RawMonth2: "30", RawMonth3: "20",
	}, rows[0])
	require.Equal(t, Row{
		SerialNo: "2", Rank: "6", Name: "Lee",
		RawMonth1: "12,500", RawMonth2: "", RawMonth3: "n/a",
	}, rows[1])
}

func TestParseHeaderVariants(t *testing.T) {
	variants := [][]any{
		{"No.", "Rank", "Name", "4", "5", "6"},
		{"Serial No.", "Grade", "Employee Name", "month 4", "month 5", "month 6"},
		{"no", "position", "employee", "April", "May", "June"},
		{"#", "rank", "name", "first month", "second month", "third month"},
		{"No.", "Rank", "Name", "2026-04", "2026-05", "2026-06"},
		{"No.", "Rank", "Name", "Apr 2026", "May 2026", "Jun 2026"},
	}

	for _, header := range variants {
		data := buildWorkbook(t, [][]any{
			header,
			{"1", "7", "Kim", "10", "20", "30"},
		})
		rows, err := Parse(data, "report.xlsx", 2)
		require.NoError(t, err, "header %v", header)
		require.Len(t, rows, 1, "header %v", header)
		require.Equal(t, "10", rows[0].RawMonth1, "header %v", header)
		require.Equal(t, "30", rows[0].RawMonth3, "header %v", header)
	}
}

func TestParseQuarterSelectsMonths(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"No.", "Name", "10", "11", "12"},
		{"1", "Kim", "5", "6", "7"},
	})

	rows, err := Parse(data, "report.xlsx", 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "5", rows[0].RawMonth1)
	require.Equal(t, "", rows[0].Rank) // no rank column in this export
}

func TestParseErrors(t *testing.T) {
	valid := buildWorkbook(t, [][]any{
		{"No.", "Rank", "Name", "4", "5", "6"},
		{"1", "7", "Kim", "10", "20", "30"},
	})

	_, err := Parse(valid, "report.xlsx", 0)
	require.ErrorContains(t, err, "quarter must be 1-4")

	_, err = Parse([]byte("not a workbook"), "report.xlsx", 1)
	require.Error(t, err)

	// Identity columns present, month columns for Q3 absent.
	_, err = Parse(valid, "report.xlsx", 3)
	require.ErrorContains(t, err, "no column found for month 7")

	noHeader := buildWorkbook(t, [][]any{
		{"just", "some", "cells"},
	})
	_, err = Parse(noHeader, "report.xlsx", 1)
	require.ErrorContains(t, err, "header row not found")
}

func TestRowReport(t *testing.T) {
	row := Row{SerialNo: "1", Rank: "7", Name: "Kim", RawMonth1: "12,500", RawMonth2: "", RawMonth3: "20"}
	rep := row.Report()

	require.Equal(t, "Kim", rep.Name)
	require.Equal(t, `"12,500"`, string(rep.RawMonth1))
	require.Equal(t, `""`, string(rep.RawMonth2))
	require.Equal(t, `"20"`, string(rep.RawMonth3))
}
