// Package repository holds the Postgres persistence for project timesheets,
// the materialized time logs, and the employee/project directory lookups.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/validation"
	"github.com/badeeltechnology/cmecustom/pkg/database"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// TimesheetListParams holds parameters for listing timesheets
type TimesheetListParams struct {
	Company   *string
	Status    *domain.Status
	FromDate  *time.Time
	ToDate    *time.Time
	ProjectID *string
	Page      int
	PerPage   int
}

// TimesheetRepository handles project timesheet persistence
type TimesheetRepository struct {
	db *database.DB
}

// NewTimesheetRepository creates a new timesheet repository
func NewTimesheetRepository(db *database.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

// Create inserts a new timesheet document with its lines in one transaction.
func (r *TimesheetRepository) Create(ctx context.Context, t *domain.ProjectTimesheet) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.StatusDraft
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO project_timesheets (
				id, date, company, status, total_working_hours, total_overtime
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowxContext(ctx, query,
			t.ID, t.Date, t.Company, t.Status, t.TotalWorkingHours, t.TotalOvertime,
		).Scan(&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return database.MapPQError(err)
		}

		return r.insertLines(ctx, tx, t)
	})
}

// Update replaces the header fields and the full line set of a document.
// Lines are deleted and reinserted so row indexes stay dense and ordered.
func (r *TimesheetRepository) Update(ctx context.Context, t *domain.ProjectTimesheet) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE project_timesheets SET
				date = $2, company = $3, status = $4,
				total_working_hours = $5, total_overtime = $6, updated_at = NOW()
			WHERE id = $1
		`
		result, err := tx.ExecContext(ctx, query,
			t.ID, t.Date, t.Company, t.Status, t.TotalWorkingHours, t.TotalOvertime,
		)
		if err != nil {
			return database.MapPQError(err)
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			return errors.NotFound("timesheet")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM timesheet_lines WHERE timesheet_id = $1`, t.ID); err != nil {
			return err
		}

		return r.insertLines(ctx, tx, t)
	})
}

func (r *TimesheetRepository) insertLines(ctx context.Context, tx *sqlx.Tx, t *domain.ProjectTimesheet) error {
	query := `
		INSERT INTO timesheet_lines (
			id, timesheet_id, row_index, employee_id, external_worker_name, project_id,
			checkin, checkout, checkin_2, checkout_2,
			break_hours, working_hours, overtime, time_log_id, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	for _, line := range t.Lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.TimesheetID = t.ID

		_, err := tx.ExecContext(ctx, query,
			line.ID, line.TimesheetID, line.RowIndex,
			line.EmployeeID, line.ExternalWorkerName, line.ProjectID,
			line.CheckIn, line.CheckOut, line.CheckIn2, line.CheckOut2,
			line.BreakHours, line.WorkingHours, line.Overtime,
			line.TimeLogID, line.Remarks,
		)
		if err != nil {
			return database.MapPQError(err)
		}
	}
	return nil
}

// GetByID loads a document with its lines, including the joined employee and
// project display names.
func (r *TimesheetRepository) GetByID(ctx context.Context, id string) (*domain.ProjectTimesheet, error) {
	var t domain.ProjectTimesheet

	query := `
		SELECT id, date, company, status, total_working_hours, total_overtime,
		       created_at, updated_at
		FROM project_timesheets
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &t, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("timesheet")
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.linesForTimesheet(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Lines = lines

	return &t, nil
}

func (r *TimesheetRepository) linesForTimesheet(ctx context.Context, timesheetID string) ([]*domain.TimesheetLine, error) {
	var lines []*domain.TimesheetLine

	query := `
		SELECT tl.id, tl.timesheet_id, tl.row_index, tl.employee_id, tl.external_worker_name,
		       tl.project_id, tl.checkin, tl.checkout, tl.checkin_2, tl.checkout_2,
		       tl.break_hours, tl.working_hours, tl.overtime, tl.time_log_id, tl.remarks,
		       e.employee_name, p.project_name
		FROM timesheet_lines tl
		LEFT JOIN employees e ON tl.employee_id = e.id
		LEFT JOIN projects p ON tl.project_id = p.id
		WHERE tl.timesheet_id = $1
		ORDER BY tl.row_index
	`
	if err := r.db.SelectContext(ctx, &lines, query, timesheetID); err != nil {
		return nil, err
	}

	return lines, nil
}

// List returns timesheet headers matching the filters, newest date first,
// plus the total count for pagination. Lines are not loaded.
func (r *TimesheetRepository) List(ctx context.Context, params TimesheetListParams) ([]*domain.ProjectTimesheet, int64, error) {
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	addFilter := func(clause string, value interface{}) {
		whereClause += fmt.Sprintf(" AND "+clause, argNum)
		args = append(args, value)
		argNum++
	}

	if params.Company != nil {
		addFilter("company = $%d", *params.Company)
	}
	if params.Status != nil {
		addFilter("status = $%d", *params.Status)
	}
	if params.FromDate != nil {
		addFilter("date >= $%d", *params.FromDate)
	}
	if params.ToDate != nil {
		addFilter("date <= $%d", *params.ToDate)
	}
	if params.ProjectID != nil {
		addFilter("id IN (SELECT timesheet_id FROM timesheet_lines WHERE project_id = $%d)", *params.ProjectID)
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM project_timesheets " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	if params.PerPage <= 0 {
		params.PerPage = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	offset := (params.Page - 1) * params.PerPage

	query := `
		SELECT id, date, company, status, total_working_hours, total_overtime,
		       created_at, updated_at
		FROM project_timesheets
	` + whereClause + fmt.Sprintf(`
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, argNum, argNum+1)

	args = append(args, params.PerPage, offset)

	var timesheets []*domain.ProjectTimesheet
	if err := r.db.SelectContext(ctx, &timesheets, query, args...); err != nil {
		return nil, 0, err
	}

	return timesheets, total, nil
}

// Delete removes a document and its lines. Only drafts may be deleted; the
// service enforces that before calling here.
func (r *TimesheetRepository) Delete(ctx context.Context, id string) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM timesheet_lines WHERE timesheet_id = $1`, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM project_timesheets WHERE id = $1`, id)
		if err != nil {
			return err
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			return errors.NotFound("timesheet")
		}

		return nil
	})
}

// UpdateStatus moves a document to a new status and persists recomputed
// totals alongside it.
func (r *TimesheetRepository) UpdateStatus(ctx context.Context, t *domain.ProjectTimesheet) error {
	query := `
		UPDATE project_timesheets SET
			status = $2, total_working_hours = $3, total_overtime = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, t.ID, t.Status, t.TotalWorkingHours, t.TotalOvertime)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("timesheet")
	}

	return nil
}

// SetLineTimeLog records (or clears, with nil) the time log linked to a line.
func (r *TimesheetRepository) SetLineTimeLog(ctx context.Context, lineID string, timeLogID *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE timesheet_lines SET time_log_id = $2 WHERE id = $1`, lineID, timeLogID)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("timesheet_line")
	}

	return nil
}

// SubmittedSiblingEntries returns the shift times an employee already has on
// other submitted timesheets for the same date. Used by the cross-document
// overlap check.
func (r *TimesheetRepository) SubmittedSiblingEntries(ctx context.Context, date time.Time, excludeTimesheetID, employeeID string) ([]validation.SiblingEntry, error) {
	var entries []validation.SiblingEntry

	query := `
		SELECT tl.timesheet_id, tl.checkin, tl.checkout, tl.checkin_2, tl.checkout_2,
		       p.project_name
		FROM timesheet_lines tl
		JOIN project_timesheets pt ON tl.timesheet_id = pt.id
		LEFT JOIN projects p ON tl.project_id = p.id
		WHERE pt.date = $1
		  AND pt.status = $2
		  AND pt.id != $3
		  AND tl.employee_id = $4
		ORDER BY pt.created_at, tl.row_index
	`
	err := r.db.SelectContext(ctx, &entries, query,
		date, domain.StatusSubmitted, excludeTimesheetID, employeeID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
