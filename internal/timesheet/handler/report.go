package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/report"
	"github.com/badeeltechnology/cmecustom/pkg/errors"
	"github.com/badeeltechnology/cmecustom/pkg/httputil"
	"github.com/badeeltechnology/cmecustom/pkg/logger"
)

// ReportHandler handles the timesheet report endpoints. Every report
// supports ?format=xlsx for a spreadsheet download.
type ReportHandler struct {
	detail  *report.DetailReport
	summary *report.SummaryReport
	monthly *report.MonthlyReport
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	detail *report.DetailReport,
	summary *report.SummaryReport,
	monthly *report.MonthlyReport,
	log *logger.Logger,
) *ReportHandler {
	return &ReportHandler{
		detail:  detail,
		summary: summary,
		monthly: monthly,
		logger:  log,
	}
}

// Detail returns the per-line detail listing
// GET /reports/detail?from_date=&to_date=&company=&project=&employee=&format=
func (h *ReportHandler) Detail(w http.ResponseWriter, r *http.Request) {
	filters, err := parseReportFilters(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	rows, err := h.detail.Run(r.Context(), filters)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	views := report.Views(rows)

	if wantsXLSX(r) {
		serveXLSX(w, "timesheet_detail.xlsx", func(w http.ResponseWriter) error {
			return report.WriteDetailXLSX(w, views)
		}, h.logger)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"rows": views,
	})
}

// Summary returns aggregated hours per worker, project, or both
// GET /reports/summary?from_date=&to_date=&group_by=&company=&project=&employee=&format=
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filters, err := parseReportFilters(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	groupBy, err := report.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	rows, err := h.summary.Run(r.Context(), filters, groupBy)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if wantsXLSX(r) {
		serveXLSX(w, "timesheet_summary.xlsx", func(w http.ResponseWriter) error {
			return report.WriteSummaryXLSX(w, rows, groupBy)
		}, h.logger)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"chart": report.BuildChart(rows),
	})
}

// Monthly returns the per-worker day grid for one month
// GET /reports/monthly?year=&month=&project=&company=&format=
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().Year())
	monthNum := queryInt(r, "month", int(time.Now().Month()))
	if monthNum < 1 || monthNum > 12 {
		httputil.Error(w, errors.BadRequest("invalid month"))
		return
	}

	var projectID, company *string
	if v := r.URL.Query().Get("project"); v != "" {
		projectID = &v
	}
	if v := r.URL.Query().Get("company"); v != "" {
		company = &v
	}

	grid, err := h.monthly.Run(r.Context(), year, time.Month(monthNum), projectID, company)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if wantsXLSX(r) {
		serveXLSX(w, fmt.Sprintf("timesheet_monthly_%04d_%02d.xlsx", year, monthNum), func(w http.ResponseWriter) error {
			return report.WriteMonthlyXLSX(w, grid)
		}, h.logger)
		return
	}

	httputil.JSON(w, http.StatusOK, grid)
}

func parseReportFilters(r *http.Request) (report.Filters, error) {
	var filters report.Filters

	fromDate, err := queryDate(r, "from_date")
	if err != nil {
		return filters, err
	}
	toDate, err := queryDate(r, "to_date")
	if err != nil {
		return filters, err
	}
	if fromDate == nil || toDate == nil {
		return filters, errors.BadRequest("from_date and to_date are required")
	}
	if toDate.Before(*fromDate) {
		return filters, errors.BadRequest("to_date must not be before from_date")
	}

	filters.FromDate = *fromDate
	filters.ToDate = *toDate

	if v := r.URL.Query().Get("company"); v != "" {
		filters.Company = &v
	}
	if v := r.URL.Query().Get("project"); v != "" {
		filters.ProjectID = &v
	}
	if v := r.URL.Query().Get("employee"); v != "" {
		filters.EmployeeID = &v
	}

	return filters, nil
}

func wantsXLSX(r *http.Request) bool {
	return r.URL.Query().Get("format") == "xlsx"
}

func serveXLSX(w http.ResponseWriter, filename string, write func(http.ResponseWriter) error, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := write(w); err != nil {
		// Headers are already out; all we can do is log.
		log.Error().Err(err).Str("filename", filename).Msg("failed to write xlsx report")
	}
}
