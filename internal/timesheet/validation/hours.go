package validation

import (
	"math"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
)

// StandardDailyHours is the fixed threshold above which net hours count as
// overtime.
const StandardDailyHours = 8.0

// ComputeLineHours fills in WorkingHours and Overtime for one line.
//
// Gross time is the primary shift plus the second shift (if set and not
// the midnight sentinel); shifts with a non-positive duration contribute
// nothing. Break hours are deducted and the result is clamped at zero.
//
// WorkingHours holds the full net hours, deliberately not capped at the
// overtime threshold - Overtime reports the excess separately, and the
// materializer depends on both fields.
func ComputeLineHours(line *domain.TimesheetLine) {
	var total float64

	if shift := line.CheckOut.HoursSince(line.CheckIn); shift > 0 {
		total += shift
	}

	if line.HasSecondShift() {
		if shift := line.CheckOut2.HoursSince(line.CheckIn2); shift > 0 {
			total += shift
		}
	}

	net := total - line.BreakHours
	if net < 0 {
		net = 0
	}

	line.WorkingHours = round2(net)
	if net > StandardDailyHours {
		line.Overtime = round2(net - StandardDailyHours)
	} else {
		line.Overtime = 0
	}
}

// ComputeTotals recomputes every line's hours and the document totals.
// It is idempotent: recomputing with unchanged inputs yields identical
// results.
func ComputeTotals(t *domain.ProjectTimesheet) {
	var totalWorking, totalOvertime float64

	for _, line := range t.Lines {
		ComputeLineHours(line)
		totalWorking += line.WorkingHours
		totalOvertime += line.Overtime
	}

	t.TotalWorkingHours = round2(totalWorking)
	t.TotalOvertime = round2(totalOvertime)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
