// Package validation holds the timesheet document checks that run on every
// save and submit: worker identity, time overlap detection, and the
// working-hours/overtime calculation.
package validation

import (
	"fmt"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// CheckWorkerIdentities verifies that every line identifies exactly one
// worker: an internal employee or an external worker name, never both and
// never neither. All violations are collected before failing, so the user
// can fix the whole document in one pass.
//
// This runs before any other check; downstream validation assumes each
// line has a resolved worker identity.
func CheckWorkerIdentities(lines []*domain.TimesheetLine) error {
	var violations []string

	for _, line := range lines {
		hasEmployee := line.HasEmployee()
		hasExternal := line.HasExternalWorker()

		switch {
		case !hasEmployee && !hasExternal:
			violations = append(violations,
				fmt.Sprintf("Row %d: either Employee or External Worker Name is required", line.RowIndex))
		case hasEmployee && hasExternal:
			violations = append(violations,
				fmt.Sprintf("Row %d: select either Employee or External Worker Name, not both", line.RowIndex))
		}
	}

	if len(violations) > 0 {
		return errors.ValidationViolations("worker identity validation failed", violations)
	}
	return nil
}
