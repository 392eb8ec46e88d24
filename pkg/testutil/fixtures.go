package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Timesheet creates a draft timesheet fixture with one standard line.
func (f *FixtureFactory) Timesheet(opts ...func(*domain.ProjectTimesheet)) *domain.ProjectTimesheet {
	t := &domain.ProjectTimesheet{
		ID:        uuid.New().String(),
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Company:   "CME Contracting",
		Status:    domain.StatusDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	t.Lines = []*domain.TimesheetLine{f.Line()}

	for _, opt := range opts {
		opt(t)
	}

	for i, line := range t.Lines {
		line.RowIndex = i + 1
		line.TimesheetID = t.ID
	}

	return t
}

// Line creates a timesheet line fixture: an internal employee working a
// standard 08:00-16:00 day with no break.
func (f *FixtureFactory) Line(opts ...func(*domain.TimesheetLine)) *domain.TimesheetLine {
	seq := f.nextSeq()
	employeeID := uuid.New().String()
	employeeName := fmt.Sprintf("Employee %d", seq)

	line := &domain.TimesheetLine{
		ID:           uuid.New().String(),
		RowIndex:     1,
		EmployeeID:   &employeeID,
		EmployeeName: &employeeName,
		CheckIn:      domain.MustClockTime("08:00"),
		CheckOut:     domain.MustClockTime("16:00"),
	}

	for _, opt := range opts {
		opt(line)
	}

	return line
}

// Employee creates an employee directory fixture.
func (f *FixtureFactory) Employee(opts ...func(*domain.Employee)) *domain.Employee {
	seq := f.nextSeq()

	emp := &domain.Employee{
		ID:     uuid.New().String(),
		Name:   fmt.Sprintf("Employee %d", seq),
		Status: "active",
	}

	for _, opt := range opts {
		opt(emp)
	}

	return emp
}

// Project creates a project directory fixture.
func (f *FixtureFactory) Project(opts ...func(*domain.Project)) *domain.Project {
	seq := f.nextSeq()

	proj := &domain.Project{
		ID:     uuid.New().String(),
		Name:   fmt.Sprintf("Project %d", seq),
		Status: "open",
	}

	for _, opt := range opts {
		opt(proj)
	}

	return proj
}

// WithWorkerID sets the line's internal employee.
func WithWorkerID(id string) func(*domain.TimesheetLine) {
	return func(l *domain.TimesheetLine) {
		l.EmployeeID = &id
	}
}

// WithExternalWorker turns the line into an external worker line.
func WithExternalWorker(name string) func(*domain.TimesheetLine) {
	return func(l *domain.TimesheetLine) {
		l.EmployeeID = nil
		l.EmployeeName = nil
		l.ExternalWorkerName = &name
	}
}

// WithShift sets the primary check-in/check-out pair.
func WithShift(checkIn, checkOut string) func(*domain.TimesheetLine) {
	return func(l *domain.TimesheetLine) {
		l.CheckIn = domain.MustClockTime(checkIn)
		l.CheckOut = domain.MustClockTime(checkOut)
	}
}

// WithSecondShift sets the optional second shift.
func WithSecondShift(checkIn, checkOut string) func(*domain.TimesheetLine) {
	return func(l *domain.TimesheetLine) {
		l.CheckIn2 = domain.MustClockTime(checkIn)
		l.CheckOut2 = domain.MustClockTime(checkOut)
	}
}

// WithBreak sets the line's break hours.
func WithBreak(hours float64) func(*domain.TimesheetLine) {
	return func(l *domain.TimesheetLine) {
		l.BreakHours = hours
	}
}

// WithProject sets the line's project.
func WithProject(id, name string) func(*domain.TimesheetLine) {
	return func(l *domain.TimesheetLine) {
		l.ProjectID = &id
		l.ProjectName = &name
	}
}

// WithLines replaces the timesheet's lines.
func WithLines(lines ...*domain.TimesheetLine) func(*domain.ProjectTimesheet) {
	return func(t *domain.ProjectTimesheet) {
		t.Lines = lines
	}
}

// WithStatus sets the timesheet status.
func WithStatus(status domain.Status) func(*domain.ProjectTimesheet) {
	return func(t *domain.ProjectTimesheet) {
		t.Status = status
	}
}

// WithDate sets the timesheet date.
func WithDate(date time.Time) func(*domain.ProjectTimesheet) {
	return func(t *domain.ProjectTimesheet) {
		t.Date = date
	}
}
