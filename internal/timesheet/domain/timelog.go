package domain

import "time"

// Activity types stamped onto time log entries. These are host-system
// categories and are created on demand if they do not exist yet.
const (
	ActivityRegular  = "Regular"
	ActivityOvertime = "Overtime"
)

// TimeLogStatus is the lifecycle state of a materialized time log.
type TimeLogStatus string

const (
	TimeLogActive    TimeLogStatus = "active"
	TimeLogCancelled TimeLogStatus = "cancelled"
)

// TimeLog is the host system's native time record, created when a project
// timesheet is submitted. Timesheet lines reference it by ID only; the
// log's lifecycle belongs to the host beyond the create/cancel calls made
// here.
type TimeLog struct {
	ID                string         `db:"id" json:"id"`
	EmployeeID        string         `db:"employee_id" json:"employee_id"`
	Company           string         `db:"company" json:"company"`
	SourceTimesheetID string         `db:"source_timesheet_id" json:"source_timesheet_id"`
	Status            TimeLogStatus  `db:"status" json:"status"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	Entries           []TimeLogEntry `json:"entries"`
}

// TimeLogEntry is one activity block within a time log.
type TimeLogEntry struct {
	ID           string    `db:"id" json:"id"`
	TimeLogID    string    `db:"time_log_id" json:"-"`
	ActivityType string    `db:"activity_type" json:"activity_type"`
	FromTime     time.Time `db:"from_time" json:"from_time"`
	ToTime       time.Time `db:"to_time" json:"to_time"`
	Hours        float64   `db:"hours" json:"hours"`
	ProjectID    *string   `db:"project_id" json:"project_id,omitempty"`
	Description  string    `db:"description" json:"description"`
}

// Employee is a directory entry in the host system. The designated
// placeholder employee for external workers is looked up by name.
type Employee struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"employee_name" json:"employee_name"`
	Status string `db:"status" json:"status"`
}

// ExternalPlaceholderName is the display name of the employee record that
// external worker time logs are booked against. The record must exist in
// the directory; a missing placeholder is a configuration error.
const ExternalPlaceholderName = "External"

// Project is a project directory entry used for line labels and reports.
type Project struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"project_name" json:"project_name"`
	Status string `db:"status" json:"status"`
}
