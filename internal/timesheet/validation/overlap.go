package validation

import (
	"fmt"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// Overlaps reports whether the half-open ranges [s1,e1) and [s2,e2)
// intersect. Back-to-back shifts (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 domain.ClockTime) bool {
	return s1 < e2 && s2 < e1
}

// InternalConflict is a hard overlap between two lines of the same
// document that belong to the same internal employee.
type InternalConflict struct {
	EmployeeName string
	Row1         int
	Range1       string
	Project1     string
	Row2         int
	Range2       string
	Project2     string
}

// String formats the conflict for the aggregated validation error.
func (c InternalConflict) String() string {
	return fmt.Sprintf("%s: Row %d: %s (%s) overlaps Row %d: %s (%s)",
		c.EmployeeName,
		c.Row1, c.Range1, c.Project1,
		c.Row2, c.Range2, c.Project2)
}

// FindInternalConflicts checks for overlapping times within one document.
//
// Lines are grouped by internal employee; only primary shifts are compared
// pairwise. External workers are not checked against each other, and
// second shifts are not part of this check (the cross-document check does
// cover them) - that asymmetry is long-standing, intentional-until-decided
// behavior and is pinned by tests.
func FindInternalConflicts(lines []*domain.TimesheetLine) []InternalConflict {
	byEmployee := make(map[string][]*domain.TimesheetLine)
	var order []string

	for _, line := range lines {
		if !line.HasEmployee() {
			continue
		}
		id := *line.EmployeeID
		if _, seen := byEmployee[id]; !seen {
			order = append(order, id)
		}
		byEmployee[id] = append(byEmployee[id], line)
	}

	var conflicts []InternalConflict
	for _, id := range order {
		rows := byEmployee[id]
		if len(rows) < 2 {
			continue
		}

		for i, row1 := range rows {
			for _, row2 := range rows[i+1:] {
				if !row1.HasPrimaryShift() || !row2.HasPrimaryShift() {
					continue
				}
				if Overlaps(row1.CheckIn, row1.CheckOut, row2.CheckIn, row2.CheckOut) {
					conflicts = append(conflicts, InternalConflict{
						EmployeeName: row1.WorkerLabel(),
						Row1:         row1.RowIndex,
						Range1:       formatRange(row1.CheckIn, row1.CheckOut),
						Project1:     row1.ProjectLabel(),
						Row2:         row2.RowIndex,
						Range2:       formatRange(row2.CheckIn, row2.CheckOut),
						Project2:     row2.ProjectLabel(),
					})
				}
			}
		}
	}

	return conflicts
}

// InternalConflictError builds the blocking validation error listing every
// colliding pair. The document is rejected as a whole, never partially
// saved.
func InternalConflictError(conflicts []InternalConflict) error {
	violations := make([]string, len(conflicts))
	for i, c := range conflicts {
		violations[i] = c.String()
	}
	return errors.ValidationViolations("overlapping times for same employee", violations)
}

// SiblingEntry is a line from another submitted timesheet on the same date
// for the same employee, as returned by the sibling query.
type SiblingEntry struct {
	TimesheetID string            `db:"timesheet_id"`
	CheckIn     domain.ClockTime  `db:"checkin"`
	CheckOut    domain.ClockTime  `db:"checkout"`
	CheckIn2    domain.ClockTime  `db:"checkin_2"`
	CheckOut2   domain.ClockTime  `db:"checkout_2"`
	ProjectName *string           `db:"project_name"`
}

func (s SiblingEntry) projectLabel() string {
	if s.ProjectName != nil && *s.ProjectName != "" {
		return *s.ProjectName
	}
	return "No Project"
}

func (s SiblingEntry) hasSecondShift() bool {
	return !s.CheckIn2.IsZero() && !s.CheckOut2.IsZero()
}

// FindCrossDocumentConflicts compares one line against sibling entries from
// other submitted documents and returns advisory warnings. Three pairings
// are tested: the line's primary shift against the sibling's primary and
// second shifts, and the line's second shift against the sibling's primary
// shift. Second shifts at the midnight sentinel are skipped.
func FindCrossDocumentConflicts(line *domain.TimesheetLine, siblings []SiblingEntry) []domain.OverlapWarning {
	var warnings []domain.OverlapWarning

	appendWarning := func(currentFrom, currentTo domain.ClockTime, sibling SiblingEntry, existingFrom, existingTo domain.ClockTime) {
		warnings = append(warnings, domain.OverlapWarning{
			EmployeeName:    line.WorkerLabel(),
			RowIndex:        line.RowIndex,
			CurrentRange:    formatRange(currentFrom, currentTo),
			CurrentProject:  line.ProjectLabel(),
			ExistingRange:   formatRange(existingFrom, existingTo),
			ExistingProject: sibling.projectLabel(),
			TimesheetID:     sibling.TimesheetID,
		})
	}

	for _, sibling := range siblings {
		if Overlaps(line.CheckIn, line.CheckOut, sibling.CheckIn, sibling.CheckOut) {
			appendWarning(line.CheckIn, line.CheckOut, sibling, sibling.CheckIn, sibling.CheckOut)
		}

		if sibling.hasSecondShift() {
			if Overlaps(line.CheckIn, line.CheckOut, sibling.CheckIn2, sibling.CheckOut2) {
				appendWarning(line.CheckIn, line.CheckOut, sibling, sibling.CheckIn2, sibling.CheckOut2)
			}
		}

		if line.HasSecondShift() {
			if Overlaps(line.CheckIn2, line.CheckOut2, sibling.CheckIn, sibling.CheckOut) {
				appendWarning(line.CheckIn2, line.CheckOut2, sibling, sibling.CheckIn, sibling.CheckOut)
			}
		}
	}

	return warnings
}

func formatRange(from, to domain.ClockTime) string {
	return from.String() + " - " + to.String()
}
