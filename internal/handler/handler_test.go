package handler

import (
	"bytes"
	"mime/multipart"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/xuri/excelize/v2"

	"overtime-engine/internal/model"
	"overtime-engine/internal/policy"
)

func do(t *testing.T, h fasthttp.RequestHandler, method, path string, body []byte, contentType string) *fasthttp.RequestCtx {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if contentType != "" {
		ctx.Request.Header.SetContentType(contentType)
	}
	ctx.Request.SetBody(body)
	h(&ctx)
	return &ctx
}

func TestHealth(t *testing.T) {
	h := New(policy.Default())
	ctx := do(t, h, "GET", "/health", nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}

func TestAllocationsEndpoint(t *testing.T) {
	h := New(policy.Default())

	body := []byte(`{
		"year": 2026,
		"quarter": 2,
		"employees": [
			{"serial_no": "1", "rank": "7", "name": "Kim",
			 "raw_month1": 57, "raw_month2": 57, "raw_month3": 57}
		]
	}`)
	ctx := do(t, h, "POST", "/api/v1/allocations", body, "application/json")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp model.AllocationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	require.Len(t, resp.CalculationResult.Records, 1)

	rec := resp.CalculationResult.Records[0]
	require.Equal(t, 57.0, rec.Credit1)
	require.Equal(t, 33.0, rec.Credit2)
	require.Equal(t, 0.0, rec.Credit3)
	require.True(t, rec.Adj2QuarterCap)
	require.True(t, rec.Adj3QuarterCap)
}

func TestAllocationsRejectsBadRequests(t *testing.T) {
	h := New(policy.Default())

	ctx := do(t, h, "GET", "/api/v1/allocations", nil, "")
	require.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = do(t, h, "POST", "/api/v1/allocations", []byte(`{"quarter": 5, "employees": [{}]}`), "application/json")
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = do(t, h, "POST", "/api/v1/allocations", []byte(`{"quarter": 1, "employees": []}`), "application/json")
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = do(t, h, "POST", "/api/v1/allocations", []byte(`not json`), "application/json")
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestWorkbookRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	cells := [][]any{
		{"No.", "Rank", "Name", "Apr", "May", "Jun"},
		{"1", "7", "Kim", "60", "0", "0"},
		{"2", "6", "Lee", "20", "75", "0"},
	}
	for r, row := range cells {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	wbBuf, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "report.xlsx")
	require.NoError(t, err)
	_, err = part.Write(wbBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("year", "2026"))
	require.NoError(t, mw.WriteField("quarter", "2"))
	require.NoError(t, mw.Close())

	h := New(policy.Default())
	ctx := do(t, h, "POST", "/api/v1/workbook", body.Bytes(), mw.FormDataContentType())
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.Contains(t, string(ctx.Response.Header.Peek("Content-Disposition")), "overtime_allocation_2026Q2_")

	out, err := excelize.OpenReader(bytes.NewReader(ctx.Response.Body()))
	require.NoError(t, err)
	defer out.Close()

	name, err := out.GetCellValue("Allocation", "C2")
	require.NoError(t, err)
	require.Equal(t, "Kim", name)

	credit, err := out.GetCellValue("Allocation", "D2")
	require.NoError(t, err)
	require.Equal(t, "57", credit)

	// Lee's month 2 was a running total: 75 corrected to 55.
	corrected, err := out.GetCellValue("Allocation", "E3")
	require.NoError(t, err)
	require.Equal(t, "55", corrected)
}

func TestWorkbookRejectsBadUpload(t *testing.T) {
	h := New(policy.Default())

	ctx := do(t, h, "POST", "/api/v1/workbook", []byte("plain"), "text/plain")
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}
