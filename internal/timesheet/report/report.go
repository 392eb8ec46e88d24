// Package report builds the timesheet reports: the per-line detail listing,
// the grouped hours summary, and the monthly day-grid. Reports only cover
// submitted documents.
package report

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Filters narrows a report run. FromDate and ToDate are required and
// inclusive; the rest are optional.
type Filters struct {
	FromDate   time.Time
	ToDate     time.Time
	Company    *string
	ProjectID  *string
	EmployeeID *string
}

// ChartDataset is one series of a bar chart.
type ChartDataset struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is a bar chart payload rendered by the frontend.
type Chart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// formatHours renders an hours value the way the reports display it: whole
// numbers without a decimal part, everything else rounded to two decimals.
func formatHours(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == math.Trunc(rounded) {
		return strconv.Itoa(int(rounded))
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// formatDayHours renders a cell of the monthly grid: empty for zero, one
// decimal at most otherwise.
func formatDayHours(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == 0 {
		return ""
	}
	if rounded == math.Trunc(rounded) {
		return strconv.Itoa(int(rounded))
	}
	return fmt.Sprintf("%.1f", rounded)
}
