package database

import (
	"strings"

	"github.com/lib/pq"

	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "break_hours_nonnegative"):
		return errors.Validation(map[string]string{
			"break_hours": "must not be negative",
		})

	case strings.Contains(constraint, "timesheet_status_valid"):
		return errors.Validation(map[string]string{
			"status": "must be one of: draft, submitted, cancelled",
		})

	case strings.Contains(constraint, "time_log_status_valid"):
		return errors.Validation(map[string]string{
			"status": "must be one of: active, cancelled",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "row_index"):
		return "a timesheet line with this row index already exists"
	case strings.Contains(constraint, "activity_type"):
		return "this activity type already exists"
	default:
		return "a record with these values already exists"
	}
}
