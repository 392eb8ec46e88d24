package report

import (
	"context"
	"fmt"
	"time"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/database"
)

// DetailRow is one timesheet line in the detail report.
type DetailRow struct {
	Date               time.Time        `db:"date"`
	TimesheetID        string           `db:"timesheet_id"`
	EmployeeID         *string          `db:"employee_id"`
	EmployeeName       *string          `db:"employee_name"`
	ExternalWorkerName *string          `db:"external_worker_name"`
	ProjectName        *string          `db:"project_name"`
	CheckIn            domain.ClockTime `db:"checkin"`
	CheckOut           domain.ClockTime `db:"checkout"`
	CheckIn2           domain.ClockTime `db:"checkin_2"`
	CheckOut2          domain.ClockTime `db:"checkout_2"`
	BreakHours         float64          `db:"break_hours"`
	WorkingHours       float64          `db:"working_hours"`
	Overtime           float64          `db:"overtime"`
	Remarks            *string          `db:"remarks"`
}

// DetailRowView is a detail row rendered for display: clock times as HH:MM,
// hours trimmed of trailing zeros, blanks for unset values.
type DetailRowView struct {
	Date         string `json:"date"`
	TimesheetID  string `json:"timesheet_id"`
	Worker       string `json:"worker"`
	External     bool   `json:"external"`
	Project      string `json:"project"`
	CheckIn      string `json:"checkin"`
	CheckOut     string `json:"checkout"`
	CheckIn2     string `json:"checkin_2"`
	CheckOut2    string `json:"checkout_2"`
	BreakHours   string `json:"break_hours"`
	WorkingHours string `json:"working_hours"`
	Overtime     string `json:"overtime"`
	Remarks      string `json:"remarks"`
}

// DetailReport builds the per-line detail listing.
type DetailReport struct {
	db *database.DB
}

// NewDetailReport creates a new detail report
func NewDetailReport(db *database.DB) *DetailReport {
	return &DetailReport{db: db}
}

// Run returns the lines of all submitted timesheets in the filter range,
// ordered by date then document then row.
func (r *DetailReport) Run(ctx context.Context, f Filters) ([]DetailRow, error) {
	query := `
		SELECT pt.date, pt.id as timesheet_id,
		       tl.employee_id, e.employee_name, tl.external_worker_name,
		       p.project_name,
		       tl.checkin, tl.checkout, tl.checkin_2, tl.checkout_2,
		       tl.break_hours, tl.working_hours, tl.overtime, tl.remarks
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

	query += " ORDER BY pt.date, pt.id, tl.row_index"

	var rows []DetailRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	return rows, nil
}

// View renders a row for display.
func (row DetailRow) View() DetailRowView {
	view := DetailRowView{
		Date:         row.Date.Format("2006-01-02"),
		TimesheetID:  row.TimesheetID,
		CheckIn:      row.CheckIn.Short(),
		CheckOut:     row.CheckOut.Short(),
		BreakHours:   formatHours(row.BreakHours),
		WorkingHours: formatHours(row.WorkingHours),
		Overtime:     formatHours(row.Overtime),
	}

	switch {
	case row.EmployeeName != nil && *row.EmployeeName != "":
		view.Worker = *row.EmployeeName
	case row.EmployeeID != nil:
		view.Worker = *row.EmployeeID
	case row.ExternalWorkerName != nil:
		view.Worker = *row.ExternalWorkerName
		view.External = true
	}

	if row.ProjectName != nil {
		view.Project = *row.ProjectName
	}

	if row.Remarks != nil {
		view.Remarks = *row.Remarks
	}

	if !row.CheckIn2.IsZero() || !row.CheckOut2.IsZero() {
		view.CheckIn2 = row.CheckIn2.Short()
		view.CheckOut2 = row.CheckOut2.Short()
	}

	return view
}

// Views renders all rows for display.
func Views(rows []DetailRow) []DetailRowView {
	views := make([]DetailRowView, len(rows))
	for i, row := range rows {
		views[i] = row.View()
	}
	return views
}
