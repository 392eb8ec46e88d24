package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/database"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// GroupBy selects the summary grouping.
type GroupBy string

const (
	GroupByWorker        GroupBy = "worker"
	GroupByProject       GroupBy = "project"
	GroupByWorkerProject GroupBy = "worker_project"
)

// ParseGroupBy validates a group-by query value, defaulting to worker.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case "":
		return GroupByWorker, nil
	case GroupByWorker, GroupByProject, GroupByWorkerProject:
		return GroupBy(s), nil
	default:
		return "", errors.BadRequest("invalid group_by; expected worker, project, or worker_project")
	}
}

// SummaryRow is one aggregated group of the summary report. TotalDays counts
// distinct dates the group has hours on; TotalHours is working plus overtime.
type SummaryRow struct {
	EmployeeID        *string `db:"employee_id" json:"employee_id,omitempty"`
	Worker            *string `db:"worker" json:"worker,omitempty"`
	External          bool    `db:"external" json:"external"`
	Project           *string `db:"project" json:"project,omitempty"`
	TotalDays         int     `db:"total_days" json:"total_days"`
	TotalWorkingHours float64 `db:"total_working_hours" json:"total_working_hours"`
	TotalOvertime     float64 `db:"total_overtime" json:"total_overtime"`
	TotalHours        float64 `db:"total_hours" json:"total_hours"`
}

// WorkerType labels the row's worker as Employee or External.
func (r SummaryRow) WorkerType() string {
	if r.Worker == nil {
		return ""
	}
	if r.External {
		return "External"
	}
	return "Employee"
}

// Label returns the group label used for chart axes.
func (r SummaryRow) Label() string {
	switch {
	case r.Worker != nil && r.Project != nil:
		return *r.Worker + " / " + *r.Project
	case r.Worker != nil:
		return *r.Worker
	case r.Project != nil:
		return *r.Project
	default:
		return "No Project"
	}
}

// SummaryReport builds aggregated working hours per worker, project, or
// worker-project pair.
type SummaryReport struct {
	db *database.DB
}

// NewSummaryReport creates a new summary report
func NewSummaryReport(db *database.DB) *SummaryReport {
	return &SummaryReport{db: db}
}

// Run aggregates submitted timesheet lines in the filter range. Internal
// employees and external workers stay on separate rows even when the names
// collide.
func (r *SummaryReport) Run(ctx context.Context, f Filters, groupBy GroupBy) ([]SummaryRow, error) {
	var selectCols, groupCols, orderCols string
	switch groupBy {
	case GroupByWorker:
		selectCols = "tl.employee_id as employee_id, COALESCE(e.employee_name, tl.external_worker_name) as worker, (tl.employee_id IS NULL) as external, NULL as project"
		groupCols = "tl.employee_id, e.employee_name, tl.external_worker_name"
		orderCols = "worker"
	case GroupByProject:
		selectCols = "NULL as employee_id, NULL as worker, FALSE as external, p.project_name as project"
		groupCols = "p.project_name"
		orderCols = "project"
	case GroupByWorkerProject:
		selectCols = "tl.employee_id as employee_id, COALESCE(e.employee_name, tl.external_worker_name) as worker, (tl.employee_id IS NULL) as external, p.project_name as project"
		groupCols = "tl.employee_id, e.employee_name, tl.external_worker_name, p.project_name"
		orderCols = "worker, project"
	default:
		return nil, errors.BadRequest("invalid group_by")
	}

	query := `
		SELECT ` + selectCols + `,
		       COUNT(DISTINCT pt.date) as total_days,
		       SUM(tl.working_hours) as total_working_hours,
		       SUM(tl.overtime) as total_overtime,
		       SUM(tl.working_hours + tl.overtime) as total_hours
		FROM timesheet_lines tl
		JOIN project_timesheets pt ON tl.timesheet_id = pt.id
		LEFT JOIN employees e ON tl.employee_id = e.id
		LEFT JOIN projects p ON tl.project_id = p.id
		WHERE pt.status = $1 AND pt.date >= $2 AND pt.date <= $3
	`
	args := []interface{}{domain.StatusSubmitted, f.FromDate, f.ToDate}
	argNum := 4

	if f.Company != nil {
		query += fmt.Sprintf(" AND pt.company = $%d", argNum)
		args = append(args, *f.Company)
		argNum++
	}
	if f.ProjectID != nil {
		query += fmt.Sprintf(" AND tl.project_id = $%d", argNum)
		args = append(args, *f.ProjectID)
		argNum++
	}
	if f.EmployeeID != nil {
		query += fmt.Sprintf(" AND tl.employee_id = $%d", argNum)
		args = append(args, *f.EmployeeID)
		argNum++
	}

	query += " GROUP BY " + groupCols + " ORDER BY " + orderCols

	var rows []SummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	return rows, nil
}

// chartLimit caps the number of bars; past that the chart stops being
// readable.
const chartLimit = 15

// BuildChart produces the hours bar chart for the top groups, one dataset
// for working hours and one for overtime.
func BuildChart(rows []SummaryRow) Chart {
	sorted := make([]SummaryRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalWorkingHours > sorted[j].TotalWorkingHours
	})

	if len(sorted) > chartLimit {
		sorted = sorted[:chartLimit]
	}

	var chart Chart
	working := ChartDataset{Name: "Working Hours"}
	overtime := ChartDataset{Name: "Overtime"}
	for _, row := range sorted {
		chart.Labels = append(chart.Labels, row.Label())
		working.Values = append(working.Values, row.TotalWorkingHours)
		overtime.Values = append(overtime.Values, row.TotalOvertime)
	}
	chart.Datasets = []ChartDataset{working, overtime}
	return chart
}
