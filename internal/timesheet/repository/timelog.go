package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/database"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// TimeLogRepository handles the host system's time log records
type TimeLogRepository struct {
	db *database.DB
}

// NewTimeLogRepository creates a new time log repository
func NewTimeLogRepository(db *database.DB) *TimeLogRepository {
	return &TimeLogRepository{db: db}
}

// Create inserts a time log with its entries in one transaction.
func (r *TimeLogRepository) Create(ctx context.Context, log *domain.TimeLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Status == "" {
		log.Status = domain.TimeLogActive
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO time_logs (id, employee_id, company, source_timesheet_id, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		err := tx.QueryRowxContext(ctx, query,
			log.ID, log.EmployeeID, log.Company, log.SourceTimesheetID, log.Status,
		).Scan(&log.CreatedAt)
		if err != nil {
			return database.MapPQError(err)
		}

		entryQuery := `
			INSERT INTO time_log_entries (
				id, time_log_id, activity_type, from_time, to_time, hours, project_id, description
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		for i := range log.Entries {
			entry := &log.Entries[i]
			if entry.ID == "" {
				entry.ID = uuid.New().String()
			}
			entry.TimeLogID = log.ID

			_, err := tx.ExecContext(ctx, entryQuery,
				entry.ID, entry.TimeLogID, entry.ActivityType,
				entry.FromTime, entry.ToTime, entry.Hours,
				entry.ProjectID, entry.Description,
			)
			if err != nil {
				return database.MapPQError(err)
			}
		}

		return nil
	})
}

// Status returns the lifecycle state of a time log.
func (r *TimeLogRepository) Status(ctx context.Context, id string) (domain.TimeLogStatus, error) {
	var status domain.TimeLogStatus

	err := r.db.GetContext(ctx, &status,
		`SELECT status FROM time_logs WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return "", errors.NotFound("time_log")
	}
	if err != nil {
		return "", err
	}

	return status, nil
}

// Cancel marks an active time log as cancelled. Cancelling a log that is
// already cancelled is a no-op.
func (r *TimeLogRepository) Cancel(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE time_logs SET status = $2 WHERE id = $1`, id, domain.TimeLogCancelled)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("time_log")
	}

	return nil
}

// EnsureActivityType creates the named activity type if it does not exist
// yet. Safe to call concurrently.
func (r *TimeLogRepository) EnsureActivityType(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_types (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, uuid.New().String(), name)
	return err
}
