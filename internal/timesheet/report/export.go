package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteDetailXLSX writes the detail report as an XLSX workbook.
func WriteDetailXLSX(w io.Writer, rows []DetailRowView) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headers := []string{
		"Date", "Timesheet", "Worker", "Project",
		"Check In", "Check Out", "Check In 2", "Check Out 2",
		"Break Hours", "Working Hours", "Overtime", "Remarks",
	}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, row := range rows {
		worker := row.Worker
		if row.External {
			worker = "[External] " + worker
		}
		values := []interface{}{
			row.Date, row.TimesheetID, worker, row.Project,
			row.CheckIn, row.CheckOut, row.CheckIn2, row.CheckOut2,
			row.BreakHours, row.WorkingHours, row.Overtime, row.Remarks,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteSummaryXLSX writes the summary report as an XLSX workbook. The column
// set follows the grouping.
func WriteSummaryXLSX(w io.Writer, rows []SummaryRow, groupBy GroupBy) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	totals := []string{"Total Days", "Working Hours", "Overtime", "Total Hours"}

	var headers []string
	switch groupBy {
	case GroupByProject:
		headers = append([]string{"Project"}, totals...)
	case GroupByWorkerProject:
		headers = append([]string{"Employee ID", "Worker", "Type", "Project"}, totals...)
	default:
		headers = append([]string{"Employee ID", "Worker", "Type"}, totals...)
	}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, row := range rows {
		var values []interface{}
		switch groupBy {
		case GroupByProject:
			values = []interface{}{deref(row.Project)}
		case GroupByWorkerProject:
			values = []interface{}{deref(row.EmployeeID), deref(row.Worker), row.WorkerType(), deref(row.Project)}
		default:
			values = []interface{}{deref(row.EmployeeID), deref(row.Worker), row.WorkerType()}
		}
		values = append(values, row.TotalDays, row.TotalWorkingHours, row.TotalOvertime, row.TotalHours)
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteMonthlyXLSX writes the monthly day grid as an XLSX workbook.
func WriteMonthlyXLSX(w io.Writer, grid *MonthlyGrid) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headers := []string{"Worker"}
	for _, day := range grid.Days {
		headers = append(headers, fmt.Sprintf("%d", day))
	}
	headers = append(headers, "Total Hours", "Total OT")
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, row := range grid.Rows {
		values := []interface{}{row.Label}
		for _, cell := range row.Days {
			values = append(values, cell)
		}
		values = append(values, row.Total, row.TotalOvertime)
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
