package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/validation"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

func line(rowIndex int, employeeID, externalName string) *domain.TimesheetLine {
	l := &domain.TimesheetLine{RowIndex: rowIndex}
	if employeeID != "" {
		l.EmployeeID = &employeeID
	}
	if externalName != "" {
		l.ExternalWorkerName = &externalName
	}
	return l
}

func TestCheckWorkerIdentities_Valid(t *testing.T) {
	lines := []*domain.TimesheetLine{
		line(1, "emp-1", ""),
		line(2, "", "Ali Hassan"),
	}

	assert.NoError(t, validation.CheckWorkerIdentities(lines))
}

func TestCheckWorkerIdentities_Neither(t *testing.T) {
	err := validation.CheckWorkerIdentities([]*domain.TimesheetLine{line(1, "", "")})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Violations, 1)
	assert.Equal(t, "Row 1: either Employee or External Worker Name is required", appErr.Violations[0])
}

func TestCheckWorkerIdentities_Both(t *testing.T) {
	err := validation.CheckWorkerIdentities([]*domain.TimesheetLine{line(1, "emp-1", "Ali Hassan")})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Violations, 1)
	assert.Equal(t, "Row 1: select either Employee or External Worker Name, not both", appErr.Violations[0])
}

func TestCheckWorkerIdentities_CollectsAllViolations(t *testing.T) {
	lines := []*domain.TimesheetLine{
		line(1, "", ""),
		line(2, "emp-1", ""),
		line(3, "emp-2", "Ali Hassan"),
		line(4, "", ""),
	}

	err := validation.CheckWorkerIdentities(lines)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Violations, 3)
	assert.Contains(t, appErr.Violations[0], "Row 1")
	assert.Contains(t, appErr.Violations[1], "Row 3")
	assert.Contains(t, appErr.Violations[2], "Row 4")
}
