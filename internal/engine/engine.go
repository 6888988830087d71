package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"overtime-engine/internal/allocation"
	"overtime-engine/internal/model"
	"overtime-engine/internal/policy"
)

const (
	// Batches at or above this size are spread across workers. Employees
	// are independent; only the months within one employee are ordered.
	fanOutThreshold = 64
	maxWorkers      = 8
)

// Process runs the allocation pipeline for every employee in the request.
// A request-level policy override is applied before anything else; an
// invalid policy is the only failure path, and it produces a FAILURE
// outcome with a critical message rather than an error.
func Process(req *model.AllocationRequest, pol policy.Policy) *model.AllocationResponse {
	start := time.Now()

	if req.Policy != nil {
		pol = pol.WithCaps(req.Policy.MonthCap, req.Policy.QuarterCap)
	}

	outcome := model.OutcomeSuccess
	var allMessages []model.AllocationMessage
	var records []model.EmployeeAllocation

	if err := pol.Validate(); err != nil {
		outcome = model.OutcomeFailure
		allMessages = append(allMessages, model.AllocationMessage{
			ID:      0,
			Level:   model.LevelCritical,
			Code:    "INVALID_POLICY",
			Message: err.Error(),
		})
	} else {
		results := make([]employeeOutcome, len(req.Employees))
		if len(req.Employees) >= fanOutThreshold {
			fanOut(pol, req.Employees, results)
		} else {
			for i := range req.Employees {
				results[i] = allocateEmployee(pol, &req.Employees[i])
			}
		}

		// Message IDs are global over the response and assigned in record
		// order, so fan-out never changes the output.
		records = make([]model.EmployeeAllocation, 0, len(results))
		for i := range results {
			rec := results[i].record
			for _, m := range results[i].messages {
				m.ID = len(allMessages)
				allMessages = append(allMessages, m)
				rec.MessageIndexes = append(rec.MessageIndexes, m.ID)
			}
			records = append(records, rec)
		}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	if allMessages == nil {
		allMessages = []model.AllocationMessage{}
	}
	if records == nil {
		records = []model.EmployeeAllocation{}
	}

	return &model.AllocationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			Year:                   req.Year,
			Quarter:                req.Quarter,
			MonthCap:               pol.MonthCap,
			QuarterCap:             pol.QuarterCap,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages: allMessages,
			Records:  records,
		},
	}
}

type employeeOutcome struct {
	record   model.EmployeeAllocation
	messages []model.AllocationMessage
}

func fanOut(pol policy.Policy, employees []model.RawMonthlyReport, results []employeeOutcome) {
	workers := maxWorkers
	if len(employees) < workers {
		workers = len(employees)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = allocateEmployee(pol, &employees[i])
			}
		}()
	}
	for i := range employees {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// allocateEmployee runs the four stages for one employee: normalize,
// correct cumulative entries, allocate under both caps, synthesize the
// remark. Pure: depends only on the report and the policy.
func allocateEmployee(pol policy.Policy, rep *model.RawMonthlyReport) employeeOutcome {
	var out employeeOutcome

	raw := [3]model.RawCell{rep.RawMonth1, rep.RawMonth2, rep.RawMonth3}
	var v [3]float64
	for i, cell := range raw {
		val, ok := allocation.NormalizeCell(cell)
		v[i] = val
		if !ok {
			out.messages = append(out.messages, model.AllocationMessage{
				Level:   model.LevelWarning,
				Code:    "UNPARSEABLE_VALUE",
				Message: fmt.Sprintf("employee %s: month %d value %s is not numeric, treated as 0", rep.Name, i+1, string(cell)),
			})
		}
	}

	corrected, m2, m3 := allocation.CorrectCumulative(pol, v)
	if m2 {
		out.messages = append(out.messages, cumulativeEntryMessage(rep.Name, 2, v[1], corrected[1]))
	}
	if m3 {
		out.messages = append(out.messages, cumulativeEntryMessage(rep.Name, 3, v[2], corrected[2]))
	}

	res := allocation.Allocate(pol, corrected)

	out.record = model.EmployeeAllocation{
		SerialNo:         rep.SerialNo,
		Rank:             rep.Rank,
		Name:             rep.Name,
		AllocationResult: toResult(res),
	}
	return out
}

func cumulativeEntryMessage(name string, month int, entered, corrected float64) model.AllocationMessage {
	return model.AllocationMessage{
		Level: model.LevelWarning,
		Code:  "CUMULATIVE_ENTRY_CORRECTED",
		Message: fmt.Sprintf("employee %s: month %d figure %s looks like a running total, corrected to %s",
			name, month, allocation.FormatHours(entered), allocation.FormatHours(corrected)),
	}
}

func toResult(r allocation.Result) model.AllocationResult {
	return model.AllocationResult{
		Hours1:         r.Hours[0],
		Hours2:         r.Hours[1],
		Hours3:         r.Hours[2],
		Credit1:        r.Credit[0],
		Credit2:        r.Credit[1],
		Credit3:        r.Credit[2],
		Cume1:          r.Cume[0],
		Cume2:          r.Cume[1],
		Cume3:          r.Cume[2],
		Remainder:      r.Remainder,
		Adj1MonthCap:   r.MonthCapHit[0],
		Adj2MonthCap:   r.MonthCapHit[1],
		Adj3MonthCap:   r.MonthCapHit[2],
		Adj2QuarterCap: r.QuarterCapHit[1],
		Adj3QuarterCap: r.QuarterCapHit[2],
		Remark:         allocation.Remark(r),
	}
}
