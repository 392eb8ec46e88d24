// Package handler exposes the project timesheet HTTP API.
package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/repository"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/service"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
	"github.com/badeeltechnology/cmecustom/pkg/httputil"
	"github.com/badeeltechnology/cmecustom/pkg/logger"
)

// TimesheetHandler handles project timesheet endpoints
type TimesheetHandler struct {
	service *service.TimesheetService
	logger  *logger.Logger
}

// NewTimesheetHandler creates a new timesheet handler
func NewTimesheetHandler(svc *service.TimesheetService, log *logger.Logger) *TimesheetHandler {
	return &TimesheetHandler{
		service: svc,
		logger:  log,
	}
}

// TimesheetLineRequest is one line of a create/update request. Times are
// clock strings ("HH:MM" or "HH:MM:SS"); the optional second shift defaults
// to unset when omitted.
type TimesheetLineRequest struct {
	EmployeeID         *string `json:"employee_id" validate:"omitempty,uuid"`
	ExternalWorkerName *string `json:"external_worker_name"`
	ProjectID          *string `json:"project_id" validate:"omitempty,uuid"`
	CheckIn            string  `json:"checkin" validate:"required"`
	CheckOut           string  `json:"checkout" validate:"required"`
	CheckIn2           string  `json:"checkin_2"`
	CheckOut2          string  `json:"checkout_2"`
	BreakHours         float64 `json:"break_hours" validate:"gte=0"`
	Remarks            *string `json:"remarks"`
}

// TimesheetRequest is the create/update request body
type TimesheetRequest struct {
	Date    string                 `json:"date" validate:"required,datetime=2006-01-02"`
	Company string                 `json:"company" validate:"required"`
	Lines   []TimesheetLineRequest `json:"details" validate:"required,min=1,dive"`
}

// TimesheetResponse wraps a document together with the advisory overlap
// warnings produced while handling it.
type TimesheetResponse struct {
	Timesheet *domain.ProjectTimesheet `json:"timesheet"`
	Warnings  []string                 `json:"warnings,omitempty"`
}

func newTimesheetResponse(t *domain.ProjectTimesheet, warnings []domain.OverlapWarning) TimesheetResponse {
	resp := TimesheetResponse{Timesheet: t}
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	return resp
}

func (req *TimesheetRequest) toDomain() (*domain.ProjectTimesheet, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.BadRequest("invalid date")
	}

	t := &domain.ProjectTimesheet{
		Date:    date,
		Company: req.Company,
	}

	for i, lr := range req.Lines {
		line := &domain.TimesheetLine{
			RowIndex:           i + 1,
			EmployeeID:         lr.EmployeeID,
			ExternalWorkerName: lr.ExternalWorkerName,
			ProjectID:          lr.ProjectID,
			BreakHours:         lr.BreakHours,
			Remarks:            lr.Remarks,
		}

		fields := []struct {
			name     string
			value    string
			target   *domain.ClockTime
			required bool
		}{
			{"checkin", lr.CheckIn, &line.CheckIn, true},
			{"checkout", lr.CheckOut, &line.CheckOut, true},
			{"checkin_2", lr.CheckIn2, &line.CheckIn2, false},
			{"checkout_2", lr.CheckOut2, &line.CheckOut2, false},
		}
		for _, f := range fields {
			if f.value == "" {
				if f.required {
					return nil, errors.BadRequest(fmt.Sprintf("Row %d: %s is required", i+1, f.name))
				}
				continue
			}
			ct, err := domain.ParseClockTime(f.value)
			if err != nil {
				return nil, errors.BadRequest(fmt.Sprintf("Row %d: invalid %s: %v", i+1, f.name, err))
			}
			*f.target = ct
		}

		t.Lines = append(t.Lines, line)
	}

	return t, nil
}

// Create creates a new draft timesheet
// POST /timesheets
func (h *TimesheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TimesheetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	t, err := req.toDomain()
	if err != nil {
		httputil.Error(w, err)
		return
	}

	warnings, err := h.service.Create(r.Context(), t)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, newTimesheetResponse(t, warnings))
}

// Get returns a timesheet with its lines
// GET /timesheets/{id}
func (h *TimesheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, newTimesheetResponse(t, nil))
}

// Update replaces a draft timesheet's content
// PUT /timesheets/{id}
func (h *TimesheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req TimesheetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	t, err := req.toDomain()
	if err != nil {
		httputil.Error(w, err)
		return
	}
	t.ID = id

	warnings, err := h.service.Update(r.Context(), t)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, newTimesheetResponse(t, warnings))
}

// List returns timesheets matching the query filters
// GET /timesheets?company=&status=&from_date=&to_date=&project=&page=&per_page=
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	timesheets, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int(total) / params.PerPage
	if int(total)%params.PerPage > 0 {
		totalPages++
	}

	httputil.JSONWithMeta(w, http.StatusOK, timesheets, &httputil.Meta{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Delete removes a draft timesheet
// DELETE /timesheets/{id}
func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Submit submits a draft timesheet and materializes its time logs
// POST /timesheets/{id}/submit
func (h *TimesheetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, warnings, err := h.service.Submit(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, newTimesheetResponse(t, warnings))
}

// Cancel cancels a submitted timesheet and its time logs
// POST /timesheets/{id}/cancel
func (h *TimesheetHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, newTimesheetResponse(t, nil))
}

func parseListParams(r *http.Request) (repository.TimesheetListParams, error) {
	params := repository.TimesheetListParams{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 50),
	}

	if v := r.URL.Query().Get("company"); v != "" {
		params.Company = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.Status(v)
		switch status {
		case domain.StatusDraft, domain.StatusSubmitted, domain.StatusCancelled:
			params.Status = &status
		default:
			return params, errors.BadRequest("invalid status filter")
		}
	}
	if v := r.URL.Query().Get("project"); v != "" {
		params.ProjectID = &v
	}

	var err error
	if params.FromDate, err = queryDate(r, "from_date"); err != nil {
		return params, err
	}
	if params.ToDate, err = queryDate(r, "to_date"); err != nil {
		return params, err
	}

	return params, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
		return fallback
	}
	return n
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, errors.BadRequest(fmt.Sprintf("invalid %s", name))
	}
	return &d, nil
}
