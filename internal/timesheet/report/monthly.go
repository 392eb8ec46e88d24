package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/database"
)

// MonthlyEntry is one worker-day aggregate feeding the monthly grid.
type MonthlyEntry struct {
	EmployeeID         *string   `db:"employee_id"`
	EmployeeName       *string   `db:"employee_name"`
	ExternalWorkerName *string   `db:"external_worker_name"`
	Date               time.Time `db:"date"`
	WorkingHours       float64   `db:"working_hours"`
	Overtime           float64   `db:"overtime"`
}

// MonthlyRow is one worker's row in the day grid. Day cells are rendered
// strings: empty for no hours, at most one decimal otherwise.
type MonthlyRow struct {
	Key           string   `json:"key"`
	Label         string   `json:"label"`
	External      bool     `json:"external"`
	Days          []string `json:"days"`
	Total         string   `json:"total"`
	TotalOvertime string   `json:"total_overtime"`
}

// MonthlyGrid is the full month pivot: one column per day, one row per
// worker seen in the month. Chart carries the total hours per day across
// all workers.
type MonthlyGrid struct {
	Year  int          `json:"year"`
	Month time.Month   `json:"month"`
	Days  []int        `json:"days"`
	Rows  []MonthlyRow `json:"rows"`
	Chart Chart        `json:"chart"`
}

// MonthlyReport builds the per-worker day grid for one calendar month.
type MonthlyReport struct {
	db *database.DB
}

// NewMonthlyReport creates a new monthly report
func NewMonthlyReport(db *database.DB) *MonthlyReport {
	return &MonthlyReport{db: db}
}

// Run fetches the month's submitted hours and pivots them into the grid.
func (r *MonthlyReport) Run(ctx context.Context, year int, month time.Month, projectID, company *string) (*MonthlyGrid, error) {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	query := `
		SELECT tl.employee_id, e.employee_name, tl.external_worker_name,
		       pt.date,
		       SUM(tl.working_hours) as working_hours,
		       SUM(tl.overtime) as overtime
		FROM timesheet_lines tl
		JOIN project_timesheets pt ON tl.timesheet_id = pt.id
		LEFT JOIN employees e ON tl.employee_id = e.id
		WHERE pt.status = $1 AND pt.date >= $2 AND pt.date <= $3
	`
	args := []interface{}{domain.StatusSubmitted, firstDay, lastDay}
	argNum := 4

	if projectID != nil {
		query += fmt.Sprintf(" AND tl.project_id = $%d", argNum)
		args = append(args, *projectID)
		argNum++
	}
	if company != nil {
		query += fmt.Sprintf(" AND pt.company = $%d", argNum)
		args = append(args, *company)
		argNum++
	}

	query += " GROUP BY tl.employee_id, e.employee_name, tl.external_worker_name, pt.date"

	var entries []MonthlyEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}

	return BuildMonthlyGrid(year, month, entries), nil
}

// BuildMonthlyGrid pivots worker-day aggregates into the day grid. Internal
// employees key by ID; external workers key by "ext_<name>" so the same name
// lands on one row across documents.
func BuildMonthlyGrid(year int, month time.Month, entries []MonthlyEntry) *MonthlyGrid {
	daysInMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()

	grid := &MonthlyGrid{Year: year, Month: month}
	for d := 1; d <= daysInMonth; d++ {
		grid.Days = append(grid.Days, d)
	}

	type workerAcc struct {
		label    string
		external bool
		hours    []float64
		total    float64
		overtime float64
	}
	workers := make(map[string]*workerAcc)

	for _, entry := range entries {
		var key, label string
		var external bool

		switch {
		case entry.EmployeeID != nil && *entry.EmployeeID != "":
			key = *entry.EmployeeID
			label = *entry.EmployeeID
			if entry.EmployeeName != nil && *entry.EmployeeName != "" {
				label = *entry.EmployeeName
			}
		case entry.ExternalWorkerName != nil && *entry.ExternalWorkerName != "":
			key = "ext_" + *entry.ExternalWorkerName
			label = fmt.Sprintf("[External] %s", *entry.ExternalWorkerName)
			external = true
		default:
			continue
		}

		acc, ok := workers[key]
		if !ok {
			acc = &workerAcc{
				label:    label,
				external: external,
				hours:    make([]float64, daysInMonth),
			}
			workers[key] = acc
		}

		day := entry.Date.Day()
		if day >= 1 && day <= daysInMonth {
			acc.hours[day-1] += entry.WorkingHours
			acc.total += entry.WorkingHours
			acc.overtime += entry.Overtime
		}
	}

	keys := make([]string, 0, len(workers))
	for key := range workers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return workers[keys[i]].label < workers[keys[j]].label
	})

	dailyTotals := make([]float64, daysInMonth)

	for _, key := range keys {
		acc := workers[key]
		row := MonthlyRow{
			Key:           key,
			Label:         acc.label,
			External:      acc.external,
			Total:         formatHours(acc.total),
			TotalOvertime: formatHours(acc.overtime),
		}
		for d, h := range acc.hours {
			row.Days = append(row.Days, formatDayHours(h))
			dailyTotals[d] += h
		}
		grid.Rows = append(grid.Rows, row)
	}

	grid.Chart.Labels = make([]string, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		grid.Chart.Labels[d-1] = strconv.Itoa(d)
	}
	grid.Chart.Datasets = []ChartDataset{{Name: "Total Hours", Values: dailyTotals}}

	return grid
}
