// Package service implements the project timesheet lifecycle: validation on
// every save, submission with time log materialization, and cancellation
// with the reverse.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/repository"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/validation"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
	"github.com/badeeltechnology/cmecustom/pkg/logger"
)

// DocumentStore is the persistence surface for timesheet documents.
type DocumentStore interface {
	Create(ctx context.Context, t *domain.ProjectTimesheet) error
	Update(ctx context.Context, t *domain.ProjectTimesheet) error
	GetByID(ctx context.Context, id string) (*domain.ProjectTimesheet, error)
	List(ctx context.Context, params repository.TimesheetListParams) ([]*domain.ProjectTimesheet, int64, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, t *domain.ProjectTimesheet) error
	SetLineTimeLog(ctx context.Context, lineID string, timeLogID *string) error
	SubmittedSiblingEntries(ctx context.Context, date time.Time, excludeTimesheetID, employeeID string) ([]validation.SiblingEntry, error)
}

// TimeLogStore is the persistence surface for materialized time logs.
type TimeLogStore interface {
	Create(ctx context.Context, log *domain.TimeLog) error
	Status(ctx context.Context, id string) (domain.TimeLogStatus, error)
	Cancel(ctx context.Context, id string) error
	EnsureActivityType(ctx context.Context, name string) error
}

// Directory resolves employees and projects from the host system.
type Directory interface {
	EmployeeByID(ctx context.Context, id string) (*domain.Employee, error)
	EmployeeByName(ctx context.Context, name string) (*domain.Employee, error)
	ProjectByID(ctx context.Context, id string) (*domain.Project, error)
}

// Notifier publishes timesheet lifecycle events. Implementations must not
// fail the calling operation.
type Notifier interface {
	PublishTimesheetSubmitted(ctx context.Context, t *domain.ProjectTimesheet, timeLogsCreated int)
	PublishTimesheetCancelled(ctx context.Context, t *domain.ProjectTimesheet, timeLogsCancelled int)
	PublishOverlapWarnings(ctx context.Context, t *domain.ProjectTimesheet, warnings []domain.OverlapWarning)
}

// TimesheetService handles project timesheet business logic
type TimesheetService struct {
	docs      DocumentStore
	timeLogs  TimeLogStore
	directory Directory
	notifier  Notifier
	logger    *logger.Logger
}

// NewTimesheetService creates a new timesheet service
func NewTimesheetService(
	docs DocumentStore,
	timeLogs TimeLogStore,
	directory Directory,
	notifier Notifier,
	log *logger.Logger,
) *TimesheetService {
	return &TimesheetService{
		docs:      docs,
		timeLogs:  timeLogs,
		directory: directory,
		notifier:  notifier,
		logger:    log,
	}
}

// Create validates and persists a new draft document. The returned warnings
// are advisory cross-document overlaps; they never block the save.
func (s *TimesheetService) Create(ctx context.Context, t *domain.ProjectTimesheet) ([]domain.OverlapWarning, error) {
	t.Status = domain.StatusDraft

	warnings, err := s.validate(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := s.docs.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("timesheet_id", t.ID).
		Int("lines", len(t.Lines)).
		Msg("timesheet created")

	return warnings, nil
}

// Update validates and persists changes to a draft document. Submitted and
// cancelled documents are immutable.
func (s *TimesheetService) Update(ctx context.Context, t *domain.ProjectTimesheet) ([]domain.OverlapWarning, error) {
	existing, err := s.docs.GetByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !existing.IsDraft() {
		return nil, errors.Conflict(fmt.Sprintf("timesheet in status %q cannot be modified", existing.Status))
	}

	t.Status = existing.Status
	t.CreatedAt = existing.CreatedAt

	warnings, err := s.validate(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := s.docs.Update(ctx, t); err != nil {
		return nil, err
	}

	return warnings, nil
}

// Get loads a document by ID.
func (s *TimesheetService) Get(ctx context.Context, id string) (*domain.ProjectTimesheet, error) {
	return s.docs.GetByID(ctx, id)
}

// List returns documents matching the filters.
func (s *TimesheetService) List(ctx context.Context, params repository.TimesheetListParams) ([]*domain.ProjectTimesheet, int64, error) {
	return s.docs.List(ctx, params)
}

// Delete removes a draft document. Submitted documents must be cancelled,
// never deleted.
func (s *TimesheetService) Delete(ctx context.Context, id string) error {
	existing, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.IsDraft() {
		return errors.Conflict(fmt.Sprintf("timesheet in status %q cannot be deleted", existing.Status))
	}

	return s.docs.Delete(ctx, id)
}

// Submit runs the full validation again, reconciles stale time log links,
// materializes time logs for every line with working hours, and moves the
// document to submitted.
func (s *TimesheetService) Submit(ctx context.Context, id string) (*domain.ProjectTimesheet, []domain.OverlapWarning, error) {
	t, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !t.Status.CanTransitionTo(domain.StatusSubmitted) {
		return nil, nil, errors.Conflict(fmt.Sprintf("timesheet in status %q cannot be submitted", t.Status))
	}

	warnings, err := s.validate(ctx, t)
	if err != nil {
		return nil, nil, err
	}

	if err := s.reconcileTimeLogLinks(ctx, t); err != nil {
		return nil, nil, err
	}

	created, err := s.materialize(ctx, t)
	if err != nil {
		return nil, nil, err
	}

	if err := t.Submit(); err != nil {
		return nil, nil, err
	}
	if err := s.docs.UpdateStatus(ctx, t); err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("timesheet_id", t.ID).
		Int("time_logs_created", created).
		Msg("timesheet submitted")

	s.notifier.PublishTimesheetSubmitted(ctx, t, created)
	s.notifier.PublishOverlapWarnings(ctx, t, warnings)

	return t, warnings, nil
}

// Cancel reverses a submission: every active linked time log is cancelled,
// the links are cleared, and the document moves to cancelled. Lines whose
// log is already gone or already cancelled are skipped silently, so the
// operation is safe to retry.
func (s *TimesheetService) Cancel(ctx context.Context, id string) (*domain.ProjectTimesheet, error) {
	t, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !t.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, errors.Conflict(fmt.Sprintf("timesheet in status %q cannot be cancelled", t.Status))
	}

	cancelled := 0
	for _, line := range t.Lines {
		if line.TimeLogID == nil || *line.TimeLogID == "" {
			continue
		}

		status, err := s.timeLogs.Status(ctx, *line.TimeLogID)
		switch {
		case errors.Is(err, errors.ErrNotFound):
			// Log removed out-of-band; nothing left to cancel.
		case err != nil:
			return nil, err
		case status == domain.TimeLogActive:
			if err := s.timeLogs.Cancel(ctx, *line.TimeLogID); err != nil {
				return nil, err
			}
			cancelled++
		}

		if err := s.docs.SetLineTimeLog(ctx, line.ID, nil); err != nil {
			return nil, err
		}
		line.TimeLogID = nil
	}

	if err := t.Cancel(); err != nil {
		return nil, err
	}
	if err := s.docs.UpdateStatus(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("timesheet_id", t.ID).
		Int("time_logs_cancelled", cancelled).
		Msg("timesheet cancelled")

	s.notifier.PublishTimesheetCancelled(ctx, t, cancelled)

	return t, nil
}

// validate runs the full check sequence on a document: worker identities
// first, then directory resolution, then the intra-document overlap check
// (blocking), then hours, then the cross-document check (advisory).
func (s *TimesheetService) validate(ctx context.Context, t *domain.ProjectTimesheet) ([]domain.OverlapWarning, error) {
	if len(t.Lines) == 0 {
		return nil, errors.BadRequest("timesheet requires at least one line")
	}

	for i, line := range t.Lines {
		line.RowIndex = i + 1
	}

	if err := validation.CheckWorkerIdentities(t.Lines); err != nil {
		return nil, err
	}

	if err := s.resolveDirectoryNames(ctx, t); err != nil {
		return nil, err
	}

	if conflicts := validation.FindInternalConflicts(t.Lines); len(conflicts) > 0 {
		return nil, validation.InternalConflictError(conflicts)
	}

	validation.ComputeTotals(t)

	warnings, err := s.crossDocumentWarnings(ctx, t)
	if err != nil {
		return nil, err
	}

	return warnings, nil
}

func (s *TimesheetService) resolveDirectoryNames(ctx context.Context, t *domain.ProjectTimesheet) error {
	for _, line := range t.Lines {
		if line.HasEmployee() {
			emp, err := s.directory.EmployeeByID(ctx, *line.EmployeeID)
			if errors.Is(err, errors.ErrNotFound) {
				return errors.BadRequest(fmt.Sprintf("Row %d: employee %s not found", line.RowIndex, *line.EmployeeID))
			}
			if err != nil {
				return err
			}
			line.EmployeeName = &emp.Name
		}

		if line.ProjectID != nil && *line.ProjectID != "" {
			proj, err := s.directory.ProjectByID(ctx, *line.ProjectID)
			if errors.Is(err, errors.ErrNotFound) {
				return errors.BadRequest(fmt.Sprintf("Row %d: project %s not found", line.RowIndex, *line.ProjectID))
			}
			if err != nil {
				return err
			}
			line.ProjectName = &proj.Name
		}
	}
	return nil
}

// crossDocumentWarnings checks each internal employee line against submitted
// sibling documents on the same date. External workers have no stable
// identity across documents, so they are not checked, and lines without a
// complete primary shift are skipped entirely.
func (s *TimesheetService) crossDocumentWarnings(ctx context.Context, t *domain.ProjectTimesheet) ([]domain.OverlapWarning, error) {
	var warnings []domain.OverlapWarning

	for _, line := range t.Lines {
		if !line.HasEmployee() || !line.HasPrimaryShift() {
			continue
		}

		siblings, err := s.docs.SubmittedSiblingEntries(ctx, t.Date, t.ID, *line.EmployeeID)
		if err != nil {
			return nil, err
		}

		warnings = append(warnings, validation.FindCrossDocumentConflicts(line, siblings)...)
	}

	return warnings, nil
}

// reconcileTimeLogLinks clears links that point at cancelled time logs, so a
// resubmission after cancel starts clean. Links to active logs and links to
// logs that no longer exist are left as they are.
func (s *TimesheetService) reconcileTimeLogLinks(ctx context.Context, t *domain.ProjectTimesheet) error {
	for _, line := range t.Lines {
		if line.TimeLogID == nil || *line.TimeLogID == "" {
			continue
		}

		status, err := s.timeLogs.Status(ctx, *line.TimeLogID)
		if errors.Is(err, errors.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		if status == domain.TimeLogCancelled {
			if err := s.docs.SetLineTimeLog(ctx, line.ID, nil); err != nil {
				return err
			}
			line.TimeLogID = nil
		}
	}
	return nil
}
