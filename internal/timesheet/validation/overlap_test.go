package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/validation"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

func ct(s string) domain.ClockTime {
	return domain.MustClockTime(s)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"partial overlap", "09:00", "13:00", "12:00", "17:00", true},
		{"no overlap with gap", "09:00", "12:00", "13:00", "17:00", false},
		{"back to back", "09:00", "12:00", "12:00", "17:00", false},
		{"contained", "09:00", "17:00", "10:00", "11:00", true},
		{"identical", "09:00", "17:00", "09:00", "17:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.Overlaps(ct(tt.s1), ct(tt.e1), ct(tt.s2), ct(tt.e2))
			assert.Equal(t, tt.want, got)

			// The predicate is symmetric in the two ranges
			swapped := validation.Overlaps(ct(tt.s2), ct(tt.e2), ct(tt.s1), ct(tt.e1))
			assert.Equal(t, tt.want, swapped)
		})
	}
}

func employeeLine(row int, employeeID, checkIn, checkOut string) *domain.TimesheetLine {
	return &domain.TimesheetLine{
		RowIndex:   row,
		EmployeeID: &employeeID,
		CheckIn:    ct(checkIn),
		CheckOut:   ct(checkOut),
	}
}

func TestFindInternalConflicts(t *testing.T) {
	lines := []*domain.TimesheetLine{
		employeeLine(1, "emp-1", "09:00", "13:00"),
		employeeLine(2, "emp-1", "12:00", "17:00"),
	}

	conflicts := validation.FindInternalConflicts(lines)

	require.Len(t, conflicts, 1)
	assert.Equal(t, 1, conflicts[0].Row1)
	assert.Equal(t, 2, conflicts[0].Row2)
	assert.Contains(t, conflicts[0].String(), "09:00:00 - 13:00:00")
	assert.Contains(t, conflicts[0].String(), "12:00:00 - 17:00:00")
}

func TestFindInternalConflicts_NoOverlap(t *testing.T) {
	lines := []*domain.TimesheetLine{
		employeeLine(1, "emp-1", "09:00", "12:00"),
		employeeLine(2, "emp-1", "13:00", "17:00"),
	}

	assert.Empty(t, validation.FindInternalConflicts(lines))
}

func TestFindInternalConflicts_DifferentEmployees(t *testing.T) {
	lines := []*domain.TimesheetLine{
		employeeLine(1, "emp-1", "09:00", "17:00"),
		employeeLine(2, "emp-2", "09:00", "17:00"),
	}

	assert.Empty(t, validation.FindInternalConflicts(lines))
}

func TestFindInternalConflicts_ExternalWorkersNotChecked(t *testing.T) {
	name := "Ali Hassan"
	lines := []*domain.TimesheetLine{
		{RowIndex: 1, ExternalWorkerName: &name, CheckIn: ct("09:00"), CheckOut: ct("17:00")},
		{RowIndex: 2, ExternalWorkerName: &name, CheckIn: ct("09:00"), CheckOut: ct("17:00")},
	}

	assert.Empty(t, validation.FindInternalConflicts(lines))
}

func TestFindInternalConflicts_SecondShiftsNotChecked(t *testing.T) {
	// Only primary shifts are compared inside one document. A second shift
	// colliding with another row's primary shift passes this check; the
	// cross-document check is where second shifts participate.
	l1 := employeeLine(1, "emp-1", "08:00", "12:00")
	l1.CheckIn2 = ct("13:00")
	l1.CheckOut2 = ct("17:00")
	l2 := employeeLine(2, "emp-1", "13:00", "17:00")

	assert.Empty(t, validation.FindInternalConflicts([]*domain.TimesheetLine{l1, l2}))
}

func TestFindInternalConflicts_MultiplePairs(t *testing.T) {
	lines := []*domain.TimesheetLine{
		employeeLine(1, "emp-1", "08:00", "12:00"),
		employeeLine(2, "emp-1", "11:00", "15:00"),
		employeeLine(3, "emp-1", "14:00", "18:00"),
	}

	conflicts := validation.FindInternalConflicts(lines)

	// 1-2 and 2-3 overlap; 1-3 does not
	require.Len(t, conflicts, 2)
}

func TestInternalConflictError(t *testing.T) {
	lines := []*domain.TimesheetLine{
		employeeLine(1, "emp-1", "09:00", "13:00"),
		employeeLine(2, "emp-1", "12:00", "17:00"),
	}

	err := validation.InternalConflictError(validation.FindInternalConflicts(lines))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Len(t, appErr.Violations, 1)
}

func TestFindCrossDocumentConflicts(t *testing.T) {
	projectName := "Tower A"
	line := employeeLine(1, "emp-1", "09:00", "13:00")
	siblings := []validation.SiblingEntry{
		{
			TimesheetID: "ts-2",
			CheckIn:     ct("12:00"),
			CheckOut:    ct("17:00"),
			ProjectName: &projectName,
		},
	}

	warnings := validation.FindCrossDocumentConflicts(line, siblings)

	require.Len(t, warnings, 1)
	assert.Equal(t, "ts-2", warnings[0].TimesheetID)
	assert.Equal(t, 1, warnings[0].RowIndex)
	assert.Contains(t, warnings[0].String(), "Tower A")
}

func TestFindCrossDocumentConflicts_AllPairings(t *testing.T) {
	line := employeeLine(1, "emp-1", "08:00", "12:00")
	line.CheckIn2 = ct("16:00")
	line.CheckOut2 = ct("20:00")

	siblings := []validation.SiblingEntry{
		{
			TimesheetID: "ts-2",
			CheckIn:     ct("11:00"), // overlaps line primary
			CheckOut:    ct("17:00"), // also overlaps line second shift
			CheckIn2:    ct("19:00"), // overlaps line second shift? no - sibling second vs line primary only
			CheckOut2:   ct("21:00"),
		},
	}

	warnings := validation.FindCrossDocumentConflicts(line, siblings)

	// primary vs sibling primary, and line second vs sibling primary.
	// The sibling's second shift (19:00-21:00) only pairs against the
	// line's primary shift, which it misses.
	require.Len(t, warnings, 2)
}

func TestFindCrossDocumentConflicts_SentinelSecondShiftSkipped(t *testing.T) {
	line := employeeLine(1, "emp-1", "09:00", "12:00")
	siblings := []validation.SiblingEntry{
		{
			TimesheetID: "ts-2",
			CheckIn:     ct("13:00"),
			CheckOut:    ct("17:00"),
			// CheckIn2/CheckOut2 at the midnight sentinel
		},
	}

	assert.Empty(t, validation.FindCrossDocumentConflicts(line, siblings))
}

func TestFindCrossDocumentConflicts_HalfSetSecondShiftSkipped(t *testing.T) {
	// A second shift with only one end filled in is not a shift. 00:00-05:00
	// on the sibling would otherwise collide with an early line.
	line := employeeLine(1, "emp-1", "00:30", "02:00")
	siblings := []validation.SiblingEntry{
		{
			TimesheetID: "ts-2",
			CheckIn:     ct("13:00"),
			CheckOut:    ct("17:00"),
			CheckOut2:   ct("05:00"),
		},
	}

	assert.Empty(t, validation.FindCrossDocumentConflicts(line, siblings))

	// Same rule on the line side.
	line = employeeLine(1, "emp-1", "08:00", "12:00")
	line.CheckOut2 = ct("17:00")
	siblings = []validation.SiblingEntry{
		{
			TimesheetID: "ts-2",
			CheckIn:     ct("13:00"),
			CheckOut:    ct("18:00"),
		},
	}

	assert.Empty(t, validation.FindCrossDocumentConflicts(line, siblings))
}

func TestFindCrossDocumentConflicts_NoSiblings(t *testing.T) {
	line := employeeLine(1, "emp-1", "09:00", "12:00")
	assert.Empty(t, validation.FindCrossDocumentConflicts(line, nil))
}
