package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, domain.StatusDraft.CanTransitionTo(domain.StatusSubmitted))
	assert.True(t, domain.StatusSubmitted.CanTransitionTo(domain.StatusCancelled))

	assert.False(t, domain.StatusDraft.CanTransitionTo(domain.StatusCancelled))
	assert.False(t, domain.StatusSubmitted.CanTransitionTo(domain.StatusDraft))
	assert.False(t, domain.StatusCancelled.CanTransitionTo(domain.StatusDraft))
	assert.False(t, domain.StatusCancelled.CanTransitionTo(domain.StatusSubmitted))
}

func TestProjectTimesheet_SubmitAndCancel(t *testing.T) {
	ts := &domain.ProjectTimesheet{Status: domain.StatusDraft}

	require.NoError(t, ts.Submit())
	assert.Equal(t, domain.StatusSubmitted, ts.Status)

	// Double submit is rejected
	assert.Error(t, ts.Submit())

	require.NoError(t, ts.Cancel())
	assert.Equal(t, domain.StatusCancelled, ts.Status)

	// Cancelled is terminal
	assert.Error(t, ts.Cancel())
	assert.Error(t, ts.Submit())
}

func TestProjectTimesheet_CancelDraft(t *testing.T) {
	ts := &domain.ProjectTimesheet{Status: domain.StatusDraft}
	assert.Error(t, ts.Cancel())
}

func TestTimesheetLine_WorkerIdentity(t *testing.T) {
	empID := "emp-1"
	extName := "Ali Hassan"
	empty := ""

	internal := &domain.TimesheetLine{EmployeeID: &empID}
	assert.True(t, internal.HasEmployee())
	assert.False(t, internal.HasExternalWorker())

	external := &domain.TimesheetLine{ExternalWorkerName: &extName}
	assert.False(t, external.HasEmployee())
	assert.True(t, external.HasExternalWorker())

	// Empty strings count as unset
	blank := &domain.TimesheetLine{EmployeeID: &empty, ExternalWorkerName: &empty}
	assert.False(t, blank.HasEmployee())
	assert.False(t, blank.HasExternalWorker())
}

func TestTimesheetLine_SecondShiftSentinel(t *testing.T) {
	line := &domain.TimesheetLine{}
	assert.False(t, line.HasSecondShift(), "00:00:00-00:00:00 means no second shift")

	line.CheckIn2 = domain.MustClockTime("17:00")
	line.CheckOut2 = domain.MustClockTime("19:00")
	assert.True(t, line.HasSecondShift())

	// A half-set pair does not count as a second shift
	line.CheckIn2 = 0
	assert.False(t, line.HasSecondShift())
}

func TestTimesheetLine_HasPrimaryShift(t *testing.T) {
	line := &domain.TimesheetLine{}
	assert.False(t, line.HasPrimaryShift())

	line.CheckIn = domain.MustClockTime("08:00")
	assert.False(t, line.HasPrimaryShift(), "check-out missing")

	line.CheckOut = domain.MustClockTime("16:00")
	assert.True(t, line.HasPrimaryShift())
}

func TestTimesheetLine_WorkerLabel(t *testing.T) {
	empID := "emp-1"
	empName := "Sara Ahmed"
	extName := "Day Laborer"

	withName := &domain.TimesheetLine{EmployeeID: &empID, EmployeeName: &empName}
	assert.Equal(t, "Sara Ahmed", withName.WorkerLabel())

	withoutName := &domain.TimesheetLine{EmployeeID: &empID}
	assert.Equal(t, "emp-1", withoutName.WorkerLabel())

	external := &domain.TimesheetLine{ExternalWorkerName: &extName}
	assert.Equal(t, "Day Laborer", external.WorkerLabel())
}

func TestTimesheetLine_ProjectLabel(t *testing.T) {
	projID := "proj-1"
	projName := "Tower A"

	withName := &domain.TimesheetLine{ProjectID: &projID, ProjectName: &projName}
	assert.Equal(t, "Tower A", withName.ProjectLabel())

	idOnly := &domain.TimesheetLine{ProjectID: &projID}
	assert.Equal(t, "proj-1", idOnly.ProjectLabel())

	none := &domain.TimesheetLine{}
	assert.Equal(t, "No Project", none.ProjectLabel())
}
