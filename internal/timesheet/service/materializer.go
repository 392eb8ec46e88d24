package service

import (
	"context"
	"fmt"
	"time"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/validation"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
)

// materialize creates one time log per line with working hours and links it
// back to the line. Each log holds a Regular entry covering up to the
// standard daily hours, and an Overtime entry for the remainder when the
// line has overtime.
//
// External workers are booked against the designated placeholder employee;
// a missing placeholder record aborts the whole submission with a
// configuration error.
func (s *TimesheetService) materialize(ctx context.Context, t *domain.ProjectTimesheet) (int, error) {
	created := 0

	for _, line := range t.Lines {
		if line.WorkingHours <= 0 {
			continue
		}

		employeeID, description, err := s.resolveLogTarget(ctx, t, line)
		if err != nil {
			return created, err
		}

		log, err := s.buildTimeLog(ctx, t, line, employeeID, description)
		if err != nil {
			return created, err
		}

		if err := s.timeLogs.Create(ctx, log); err != nil {
			return created, err
		}

		if err := s.docs.SetLineTimeLog(ctx, line.ID, &log.ID); err != nil {
			return created, err
		}
		line.TimeLogID = &log.ID

		created++
	}

	return created, nil
}

func (s *TimesheetService) resolveLogTarget(ctx context.Context, t *domain.ProjectTimesheet, line *domain.TimesheetLine) (string, string, error) {
	if line.HasEmployee() {
		description := fmt.Sprintf("%s | Project Timesheet %s", line.WorkerLabel(), t.ID)
		return *line.EmployeeID, description, nil
	}

	placeholder, err := s.directory.EmployeeByName(ctx, domain.ExternalPlaceholderName)
	if errors.Is(err, errors.ErrNotFound) {
		return "", "", errors.Configuration(fmt.Sprintf(
			"placeholder employee %q not found; create it before submitting timesheets with external workers",
			domain.ExternalPlaceholderName))
	}
	if err != nil {
		return "", "", err
	}

	description := fmt.Sprintf("External Worker: %s | Project Timesheet %s", *line.ExternalWorkerName, t.ID)
	return placeholder.ID, description, nil
}

func (s *TimesheetService) buildTimeLog(ctx context.Context, t *domain.ProjectTimesheet, line *domain.TimesheetLine, employeeID, description string) (*domain.TimeLog, error) {
	regularHours := line.WorkingHours
	if regularHours > validation.StandardDailyHours {
		regularHours = validation.StandardDailyHours
	}

	from := line.CheckIn.At(t.Date)
	// The regular block ends after the regular hours plus the break, so the
	// overtime block lines up with the actual checkout.
	regularEnd := from.Add(hoursToDuration(regularHours + line.BreakHours))

	if err := s.timeLogs.EnsureActivityType(ctx, domain.ActivityRegular); err != nil {
		return nil, err
	}

	log := &domain.TimeLog{
		EmployeeID:        employeeID,
		Company:           t.Company,
		SourceTimesheetID: t.ID,
		Status:            domain.TimeLogActive,
		Entries: []domain.TimeLogEntry{
			{
				ActivityType: domain.ActivityRegular,
				FromTime:     from,
				ToTime:       regularEnd,
				Hours:        regularHours,
				ProjectID:    line.ProjectID,
				Description:  description,
			},
		},
	}

	if line.Overtime > 0 {
		if err := s.timeLogs.EnsureActivityType(ctx, domain.ActivityOvertime); err != nil {
			return nil, err
		}

		log.Entries = append(log.Entries, domain.TimeLogEntry{
			ActivityType: domain.ActivityOvertime,
			FromTime:     regularEnd,
			ToTime:       line.CheckOut.At(t.Date),
			Hours:        line.Overtime,
			ProjectID:    line.ProjectID,
			Description:  description,
		})
	}

	return log, nil
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
