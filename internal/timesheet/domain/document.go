package domain

import (
	"fmt"
	"time"

	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// Status is the lifecycle state of a project timesheet document.
//
// The document is mutable while in draft. Submission materializes time
// logs and freezes the content; cancellation reverses the materialization.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusCancelled Status = "cancelled"
)

// CanTransitionTo reports whether the status may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusCancelled
	default:
		return false
	}
}

// ProjectTimesheet is a daily timesheet document covering one date and
// company, with one line per worker attendance.
type ProjectTimesheet struct {
	ID                string    `db:"id" json:"id"`
	Date              time.Time `db:"date" json:"date"`
	Company           string    `db:"company" json:"company"`
	Status            Status    `db:"status" json:"status"`
	TotalWorkingHours float64   `db:"total_working_hours" json:"total_working_hours"`
	TotalOvertime     float64   `db:"total_overtime" json:"total_overtime"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`

	// Lines are ordered by RowIndex; insertion order is meaningful and is
	// referenced in validation messages.
	Lines []*TimesheetLine `json:"details"`
}

// Submit transitions the document from draft to submitted.
func (t *ProjectTimesheet) Submit() error {
	if !t.Status.CanTransitionTo(StatusSubmitted) {
		return errors.Conflict(fmt.Sprintf("timesheet in status %q cannot be submitted", t.Status))
	}
	t.Status = StatusSubmitted
	return nil
}

// Cancel transitions the document from submitted to cancelled.
func (t *ProjectTimesheet) Cancel() error {
	if !t.Status.CanTransitionTo(StatusCancelled) {
		return errors.Conflict(fmt.Sprintf("timesheet in status %q cannot be cancelled", t.Status))
	}
	t.Status = StatusCancelled
	return nil
}

// IsDraft reports whether the document is still editable.
func (t *ProjectTimesheet) IsDraft() bool {
	return t.Status == StatusDraft
}

// TimesheetLine is one attendance row of a project timesheet. A line
// identifies exactly one worker: an internal employee by ID, or an
// external worker by name.
type TimesheetLine struct {
	ID                 string    `db:"id" json:"id"`
	TimesheetID        string    `db:"timesheet_id" json:"-"`
	RowIndex           int       `db:"row_index" json:"row_index"`
	EmployeeID         *string   `db:"employee_id" json:"employee_id,omitempty"`
	ExternalWorkerName *string   `db:"external_worker_name" json:"external_worker_name,omitempty"`
	ProjectID          *string   `db:"project_id" json:"project_id,omitempty"`
	CheckIn            ClockTime `db:"checkin" json:"checkin"`
	CheckOut           ClockTime `db:"checkout" json:"checkout"`
	CheckIn2           ClockTime `db:"checkin_2" json:"checkin_2"`
	CheckOut2          ClockTime `db:"checkout_2" json:"checkout_2"`
	BreakHours         float64   `db:"break_hours" json:"break_hours"`
	WorkingHours       float64   `db:"working_hours" json:"working_hours"`
	Overtime           float64   `db:"overtime" json:"overtime"`
	TimeLogID          *string   `db:"time_log_id" json:"time_log_id,omitempty"`
	Remarks            *string   `db:"remarks" json:"remarks,omitempty"`

	// Joined fields (populated by queries, not stored on the line)
	EmployeeName *string `db:"employee_name" json:"employee_name,omitempty"`
	ProjectName  *string `db:"project_name" json:"project_name,omitempty"`
}

// HasEmployee reports whether the line names an internal employee.
func (l *TimesheetLine) HasEmployee() bool {
	return l.EmployeeID != nil && *l.EmployeeID != ""
}

// HasExternalWorker reports whether the line names an external worker.
func (l *TimesheetLine) HasExternalWorker() bool {
	return l.ExternalWorkerName != nil && *l.ExternalWorkerName != ""
}

// HasPrimaryShift reports whether the primary check-in/check-out pair is
// complete. A pair with either end at the midnight sentinel does not count.
func (l *TimesheetLine) HasPrimaryShift() bool {
	return !l.CheckIn.IsZero() && !l.CheckOut.IsZero()
}

// HasSecondShift reports whether the optional second shift is set. Both
// ends must be filled in; 00:00:00-00:00:00 is the "not set" sentinel and a
// half-filled pair does not count either.
func (l *TimesheetLine) HasSecondShift() bool {
	return !l.CheckIn2.IsZero() && !l.CheckOut2.IsZero()
}

// WorkerLabel returns the display name used in messages and reports:
// the employee name when resolved, the employee ID as a fallback, or the
// external worker name.
func (l *TimesheetLine) WorkerLabel() string {
	if l.HasEmployee() {
		if l.EmployeeName != nil && *l.EmployeeName != "" {
			return *l.EmployeeName
		}
		return *l.EmployeeID
	}
	if l.HasExternalWorker() {
		return *l.ExternalWorkerName
	}
	return ""
}

// ProjectLabel returns the project display name or "No Project".
func (l *TimesheetLine) ProjectLabel() string {
	if l.ProjectName != nil && *l.ProjectName != "" {
		return *l.ProjectName
	}
	if l.ProjectID != nil && *l.ProjectID != "" {
		return *l.ProjectID
	}
	return "No Project"
}

// OverlapWarning is a non-blocking cross-document overlap notice. It never
// prevents saving or submitting; it is surfaced to the user as advisory.
type OverlapWarning struct {
	EmployeeName    string `json:"employee_name"`
	RowIndex        int    `json:"row_index"`
	CurrentRange    string `json:"current_range"`
	CurrentProject  string `json:"current_project"`
	ExistingRange   string `json:"existing_range"`
	ExistingProject string `json:"existing_project"`
	TimesheetID     string `json:"timesheet_id"`
}

// String formats the warning the way it is presented to users.
func (w OverlapWarning) String() string {
	return fmt.Sprintf("Row %d - %s: current %s (%s) overlaps with %s: %s (%s)",
		w.RowIndex, w.EmployeeName,
		w.CurrentRange, w.CurrentProject,
		w.TimesheetID, w.ExistingRange, w.ExistingProject)
}
