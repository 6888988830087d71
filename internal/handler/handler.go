package handler

import (
	"fmt"
	"io"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"overtime-engine/internal/engine"
	"overtime-engine/internal/export"
	"overtime-engine/internal/model"
	"overtime-engine/internal/policy"
	"overtime-engine/internal/source"
)

// New returns the request handler for the service. The policy is fixed
// at startup; requests may still override the caps per call.
func New(pol policy.Policy) fasthttp.RequestHandler {
	h := &handler{pol: pol}
	return h.route
}

type handler struct {
	pol policy.Policy
}

func (h *handler) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/health":
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"status":"ok"}`)
	case "/api/v1/allocations":
		h.allocations(ctx)
	case "/api/v1/workbook":
		h.workbook(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

// allocations is the JSON batch endpoint: raw monthly reports in,
// allocation records out.
func (h *handler) allocations(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.AllocationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Quarter < 1 || req.Quarter > 4 {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Quarter must be 1-4, got %d", req.Quarter))
		return
	}
	if len(req.Employees) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one employee is required")
		return
	}

	writeJSON(ctx, engine.Process(&req, h.pol))
}

// workbook is the round-trip endpoint: an uploaded source table comes
// back as the rendered report workbook.
func (h *handler) workbook(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Workbook file is required")
		return
	}
	year, err := strconv.Atoi(string(ctx.FormValue("year")))
	if err != nil || year < 1 {
		writeError(ctx, fasthttp.StatusBadRequest, "Year is required")
		return
	}
	quarter, err := strconv.Atoi(string(ctx.FormValue("quarter")))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Quarter is required")
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Unable to open uploaded file")
		return
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Unable to read uploaded file")
		return
	}

	rows, err := source.Parse(data, fh.Filename, quarter)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if len(rows) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "No employee rows found in the source table")
		return
	}

	req := model.AllocationRequest{
		Year:      year,
		Quarter:   quarter,
		Employees: make([]model.RawMonthlyReport, 0, len(rows)),
	}
	for _, row := range rows {
		req.Employees = append(req.Employees, row.Report())
	}

	resp := engine.Process(&req, h.pol)

	wb, err := export.Render(resp)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Unable to render report: "+err.Error())
		return
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Unable to write report: "+err.Error())
		return
	}

	ctx.SetContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response.Header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(year, quarter, time.Now())))
	ctx.SetBody(buf.Bytes())
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Unable to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(model.ErrorResponse{Status: status, Message: message})
	ctx.SetBody(body)
}
