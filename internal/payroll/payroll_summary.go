package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	payrollerrors "go-hris-payroll/internal/payroll/errors"
	"go-hris-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	summaryGenerationKey = "payrolls:summary:generation"
	summaryCacheTTL      = 30 * time.Minute
	unassignedDepartment = "Unassigned"
)

func summaryCacheKey(generation int64, year, month int, departmentID string) string {
	return fmt.Sprintf("payrolls:summary:v%d:%d:%d:%s", generation, year, month, departmentID)
}

// GetSummary aggregates active payrolls. Results are cached per generation;
// every write bumps the generation so stale entries are never read again.
func (s *service) GetSummary(ctx context.Context, req SummaryFilterRequest) (SummaryResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	q := SummaryQuery{}
	from, to, err := periodWindow(req.Year, req.Month)
	if err != nil {
		return SummaryResponse{}, err
	}
	q.PeriodFrom, q.PeriodTo = from, to

	if req.DepartmentID != "" {
		departmentID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return SummaryResponse{}, payrollerrors.ErrInvalidDepartmentID
		}
		q.DepartmentID = &departmentID
	}

	load := func() (SummaryResponse, error) {
		payrolls, err := s.repo.FindForSummary(ctx, q)
		if err != nil {
			return SummaryResponse{}, err
		}
		resp := buildSummary(payrolls)
		resp.Year, resp.Month, resp.DepartmentID = req.Year, req.Month, req.DepartmentID
		return resp, nil
	}

	if s.rdb == nil {
		return load()
	}

	cacheKey := summaryCacheKey(s.summaryGeneration(ctx), req.Year, req.Month, req.DepartmentID)
	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var resp SummaryResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return resp, nil
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := load()
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, summaryCacheTTL).Err(); err != nil {
				log.Warn("payroll summary cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
		return resp, nil
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return v.(SummaryResponse), nil
}

func (s *service) summaryGeneration(ctx context.Context) int64 {
	gen, err := s.rdb.Get(ctx, summaryGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		contextutil.GetLogger(ctx, s.logger).Warn("payroll summary generation read failed", zap.Error(err))
	}
	return gen
}

func (s *service) invalidateSummary(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, summaryGenerationKey).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("payroll summary invalidation failed", zap.Error(err))
	}
}

func buildSummary(payrolls []Payroll) SummaryResponse {
	resp := SummaryResponse{
		Totals: SummaryTotals{
			TotalGross:      decimal.Zero,
			TotalDeductions: decimal.Zero,
			TotalNet:        decimal.Zero,
			TotalTax:        decimal.Zero,
			TotalOvertime:   decimal.Zero,
			TotalBonus:      decimal.Zero,
		},
		ByStatus:     make([]StatusBreakdown, len(Statuses)),
		ByDepartment: []DepartmentBreakdown{},
	}

	statusIdx := make(map[string]int, len(Statuses))
	for i, st := range Statuses {
		statusIdx[st] = i
		resp.ByStatus[i] = StatusBreakdown{Status: st, TotalGross: decimal.Zero, TotalNet: decimal.Zero}
	}

	type deptAgg struct {
		row       DepartmentBreakdown
		employees map[uuid.UUID]struct{}
	}
	depts := map[string]*deptAgg{}

	for i := range payrolls {
		p := &payrolls[i]
		gross := p.ItemTotal(ItemTypeEarning)
		deductions := p.ItemTotal(ItemTypeDeduction)

		t := &resp.Totals
		t.PayrollCount++
		t.TotalGross = t.TotalGross.Add(gross)
		t.TotalDeductions = t.TotalDeductions.Add(deductions)
		t.TotalNet = t.TotalNet.Add(p.NetSalary)
		t.TotalTax = t.TotalTax.Add(p.ItemAmount(ItemTax))
		t.TotalOvertime = t.TotalOvertime.Add(p.ItemAmount(ItemOvertime))
		t.TotalBonus = t.TotalBonus.Add(p.ItemAmount(ItemBonus))

		if idx, ok := statusIdx[p.Status]; ok {
			st := &resp.ByStatus[idx]
			st.Count++
			st.TotalGross = st.TotalGross.Add(gross)
			st.TotalNet = st.TotalNet.Add(p.NetSalary)
		}

		deptID, deptName := "", unassignedDepartment
		if p.Employee != nil && p.Employee.DepartmentID != nil {
			deptID = p.Employee.DepartmentID.String()
			if p.Employee.Department != nil {
				deptName = p.Employee.Department.Name
			}
		}
		agg, ok := depts[deptID]
		if !ok {
			agg = &deptAgg{
				row: DepartmentBreakdown{
					DepartmentID:    deptID,
					DepartmentName:  deptName,
					TotalSalary:     decimal.Zero,
					TotalDeductions: decimal.Zero,
					TotalNet:        decimal.Zero,
				},
				employees: map[uuid.UUID]struct{}{},
			}
			depts[deptID] = agg
		}
		agg.employees[p.EmployeeID] = struct{}{}
		agg.row.TotalSalary = agg.row.TotalSalary.Add(gross)
		agg.row.TotalDeductions = agg.row.TotalDeductions.Add(deductions)
		agg.row.TotalNet = agg.row.TotalNet.Add(p.NetSalary)
	}

	for _, agg := range depts {
		agg.row.EmployeeCount = len(agg.employees)
		resp.ByDepartment = append(resp.ByDepartment, agg.row)
	}
	sort.Slice(resp.ByDepartment, func(i, j int) bool {
		a, b := resp.ByDepartment[i], resp.ByDepartment[j]
		if a.DepartmentName != b.DepartmentName {
			return a.DepartmentName < b.DepartmentName
		}
		return a.DepartmentID < b.DepartmentID
	})

	return resp
}
