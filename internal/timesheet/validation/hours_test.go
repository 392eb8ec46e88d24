package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/validation"
)

func shiftLine(checkIn, checkOut string, breakHours float64) *domain.TimesheetLine {
	return &domain.TimesheetLine{
		CheckIn:    domain.MustClockTime(checkIn),
		CheckOut:   domain.MustClockTime(checkOut),
		BreakHours: breakHours,
	}
}

func TestComputeLineHours(t *testing.T) {
	tests := []struct {
		name         string
		line         *domain.TimesheetLine
		wantWorking  float64
		wantOvertime float64
	}{
		{
			name:         "standard day no overtime",
			line:         shiftLine("08:00", "16:00", 0),
			wantWorking:  8,
			wantOvertime: 0,
		},
		{
			name:         "ten hour day",
			line:         shiftLine("07:00", "17:00", 0),
			wantWorking:  10,
			wantOvertime: 2,
		},
		{
			name:         "break deducted before overtime",
			line:         shiftLine("08:00", "18:00", 1),
			wantWorking:  9,
			wantOvertime: 1,
		},
		{
			name:         "break larger than shift clamps to zero",
			line:         shiftLine("08:00", "09:00", 2),
			wantWorking:  0,
			wantOvertime: 0,
		},
		{
			name:         "inverted shift contributes nothing",
			line:         shiftLine("16:00", "08:00", 0),
			wantWorking:  0,
			wantOvertime: 0,
		},
		{
			name: "second shift adds to total",
			line: func() *domain.TimesheetLine {
				l := shiftLine("08:00", "12:00", 0)
				l.CheckIn2 = domain.MustClockTime("13:00")
				l.CheckOut2 = domain.MustClockTime("18:00")
				return l
			}(),
			wantWorking:  9,
			wantOvertime: 1,
		},
		{
			name:         "fractional hours round to two decimals",
			line:         shiftLine("08:00", "16:20", 0),
			wantWorking:  8.33,
			wantOvertime: 0.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validation.ComputeLineHours(tt.line)
			assert.InDelta(t, tt.wantWorking, tt.line.WorkingHours, 1e-9)
			assert.InDelta(t, tt.wantOvertime, tt.line.Overtime, 1e-9)
		})
	}
}

func TestComputeLineHours_SentinelSecondShiftIgnored(t *testing.T) {
	// 00:00:00-00:00:00 is "no second shift", never a zero-length shift
	l := shiftLine("08:00", "16:00", 0)
	validation.ComputeLineHours(l)
	assert.InDelta(t, 8.0, l.WorkingHours, 1e-9)
}

func TestComputeLineHours_WorkingHoursNotCapped(t *testing.T) {
	// WorkingHours carries the full net; the cap applies only when the
	// materializer splits the regular block off.
	l := shiftLine("06:00", "20:00", 0)
	validation.ComputeLineHours(l)
	assert.InDelta(t, 14.0, l.WorkingHours, 1e-9)
	assert.InDelta(t, 6.0, l.Overtime, 1e-9)
}

func TestComputeTotals(t *testing.T) {
	ts := &domain.ProjectTimesheet{
		Lines: []*domain.TimesheetLine{
			shiftLine("08:00", "16:00", 0),
			shiftLine("07:00", "18:00", 1),
		},
	}

	validation.ComputeTotals(ts)

	assert.InDelta(t, 18.0, ts.TotalWorkingHours, 1e-9)
	assert.InDelta(t, 2.0, ts.TotalOvertime, 1e-9)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	ts := &domain.ProjectTimesheet{
		Lines: []*domain.TimesheetLine{shiftLine("08:00", "16:20", 0.5)},
	}

	validation.ComputeTotals(ts)
	firstWorking := ts.TotalWorkingHours
	firstOvertime := ts.TotalOvertime

	validation.ComputeTotals(ts)

	assert.Equal(t, firstWorking, ts.TotalWorkingHours)
	assert.Equal(t, firstOvertime, ts.TotalOvertime)
}
