// Package punchimport reads punch exports produced by biometric devices.
package punchimport

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/xuri/excelize/v2"
)

// Row is one parsed punch. Line is the 1-based sheet row.
type Row struct {
	Line           int
	EmployeeNumber int64
	Timestamp      time.Time
}

var (
	employeeHeaders  = []string{"employee no", "employee number", "emp id", "employee_external_id", "ac-no."}
	timestampHeaders = []string{"timestamp", "datetime", "date time"}
	dateHeaders      = []string{"date"}
	timeHeaders      = []string{"time"}
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006"}

var timeLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04:05 PM"}

type columns struct {
	employee, timestamp, date, clock int
}

// Parse reads the first sheet of a workbook. Wall clock values are placed in
// loc. Rows that cannot be parsed are returned as row errors; only an
// unreadable workbook or missing header fails the whole parse.
func Parse(r io.Reader, loc *time.Location) ([]Row, []biometric.ImportRowError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read workbook: %w", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", biometric.ErrInvalidWorkbook, err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, nil, biometric.ErrInvalidWorkbook
	}
	sheetRows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", biometric.ErrInvalidWorkbook, err)
	}
	if len(sheetRows) == 0 {
		return nil, nil, biometric.ErrMissingColumns
	}

	cols, ok := locateColumns(sheetRows[0])
	if !ok {
		return nil, nil, biometric.ErrMissingColumns
	}

	var (
		rows    []Row
		rowErrs []biometric.ImportRowError
	)
	for i, cells := range sheetRows[1:] {
		line := i + 2
		if blank(cells) {
			continue
		}
		row, err := parseRow(cells, cols, loc)
		if err != nil {
			rowErrs = append(rowErrs, biometric.ImportRowError{Row: line, Message: err.Error()})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func locateColumns(header []string) (columns, bool) {
	cols := columns{employee: -1, timestamp: -1, date: -1, clock: -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case matches(name, employeeHeaders) && cols.employee < 0:
			cols.employee = i
		case matches(name, timestampHeaders) && cols.timestamp < 0:
			cols.timestamp = i
		case matches(name, dateHeaders) && cols.date < 0:
			cols.date = i
		case matches(name, timeHeaders) && cols.clock < 0:
			cols.clock = i
		}
	}
	hasWhen := cols.timestamp >= 0 || (cols.date >= 0 && cols.clock >= 0)
	return cols, cols.employee >= 0 && hasWhen
}

func parseRow(cells []string, cols columns, loc *time.Location) (Row, error) {
	rawEmp := cell(cells, cols.employee)
	if rawEmp == "" {
		return Row{}, fmt.Errorf("employee number is empty")
	}
	empNo, err := parseEmployeeNumber(rawEmp)
	if err != nil {
		return Row{}, err
	}

	var ts time.Time
	if cols.timestamp >= 0 {
		ts, err = parseTimestamp(cell(cells, cols.timestamp), loc)
	} else {
		ts, err = parseDateAndTime(cell(cells, cols.date), cell(cells, cols.clock), loc)
	}
	if err != nil {
		return Row{}, err
	}

	return Row{EmployeeNumber: empNo, Timestamp: ts}, nil
}

func parseEmployeeNumber(raw string) (int64, error) {
	// Numeric cells arrive as "1042" or "1042.0".
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) && f > 0 {
		return int64(f), nil
	}
	return 0, fmt.Errorf("invalid employee number %q", raw)
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
		}
		return inLocation(t, loc), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

func parseDateAndTime(rawDate, rawTime string, loc *time.Location) (time.Time, error) {
	if rawDate == "" || rawTime == "" {
		return time.Time{}, fmt.Errorf("date and time are required")
	}

	var day time.Time
	if serial, err := strconv.ParseFloat(rawDate, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", rawDate)
		}
		day = t
	} else {
		parsed := false
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, rawDate); err == nil {
				day, parsed = t, true
				break
			}
		}
		if !parsed {
			return time.Time{}, fmt.Errorf("invalid date %q", rawDate)
		}
	}

	var offset time.Duration
	if fraction, err := strconv.ParseFloat(rawTime, 64); err == nil {
		if fraction < 0 || fraction >= 1 {
			return time.Time{}, fmt.Errorf("invalid time %q", rawTime)
		}
		offset = time.Duration(fraction*86400+0.5) * time.Second
	} else {
		parsed := false
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, rawTime); err == nil {
				offset = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
				parsed = true
				break
			}
		}
		if !parsed {
			return time.Time{}, fmt.Errorf("invalid time %q", rawTime)
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).Add(offset), nil
}

// inLocation keeps the wall clock of t and reinterprets it in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func matches(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
