package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/repository"
	"github.com/badeeltechnology/cmecustom/pkg/database"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
	"github.com/badeeltechnology/cmecustom/pkg/testutil"
)

func setupTimeLogRepo(t *testing.T) (*repository.TimeLogRepository, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	db := database.NewFromDB(mockDB.DB, testutil.NopLogger())
	return repository.NewTimeLogRepository(db), mockDB
}

func TestTimeLogRepository_Create(t *testing.T) {
	repo, mockDB := setupTimeLogRepo(t)
	defer mockDB.Close()

	from := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	log := &domain.TimeLog{
		EmployeeID:        "emp-1",
		Company:           "CME Contracting",
		SourceTimesheetID: "ts-1",
		Entries: []domain.TimeLogEntry{
			{
				ActivityType: domain.ActivityRegular,
				FromTime:     from,
				ToTime:       from.Add(8 * time.Hour),
				Hours:        8,
				Description:  "Sara Ahmed | Project Timesheet ts-1",
			},
			{
				ActivityType: domain.ActivityOvertime,
				FromTime:     from.Add(8 * time.Hour),
				ToTime:       from.Add(10 * time.Hour),
				Hours:        2,
				Description:  "Sara Ahmed | Project Timesheet ts-1",
			},
		},
	}

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO time_logs").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))
	mockDB.ExpectExec("INSERT INTO time_log_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("INSERT INTO time_log_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := repo.Create(context.Background(), log)

	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.Equal(t, domain.TimeLogActive, log.Status)
	assert.Equal(t, log.ID, log.Entries[0].TimeLogID)
	assert.Equal(t, log.ID, log.Entries[1].TimeLogID)
	mockDB.ExpectationsWereMet(t)
}

func TestTimeLogRepository_Status(t *testing.T) {
	repo, mockDB := setupTimeLogRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT status FROM time_logs").
		WithArgs("log-1").
		WillReturnRows(testutil.MockRows("status").AddRow("active"))

	status, err := repo.Status(context.Background(), "log-1")

	require.NoError(t, err)
	assert.Equal(t, domain.TimeLogActive, status)
	mockDB.ExpectationsWereMet(t)
}

func TestTimeLogRepository_Status_NotFound(t *testing.T) {
	repo, mockDB := setupTimeLogRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT status FROM time_logs").
		WithArgs("missing").
		WillReturnRows(testutil.MockRows("status"))

	_, err := repo.Status(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestTimeLogRepository_Cancel(t *testing.T) {
	repo, mockDB := setupTimeLogRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE time_logs SET status").
		WithArgs("log-1", string(domain.TimeLogCancelled)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), "log-1"))
	mockDB.ExpectationsWereMet(t)
}

func TestTimeLogRepository_EnsureActivityType(t *testing.T) {
	repo, mockDB := setupTimeLogRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("INSERT INTO activity_types").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.EnsureActivityType(context.Background(), domain.ActivityRegular))
	mockDB.ExpectationsWereMet(t)
}
