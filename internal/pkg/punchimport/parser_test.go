package punchimport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var manila = time.FixedZone("PHT", 8*60*60)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse_TimestampColumn(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Employee No", "Timestamp"},
		{1042, "2024-05-02 08:03:00"},
		{"1043", "2024-05-02T17:45:10+08:00"},
		{},
		{"abc", "2024-05-02 08:00"},
		{1044, "yesterday"},
	})

	rows, rowErrs, err := Parse(buf, manila)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1042), rows[0].EmployeeNumber)
	assert.Equal(t, 2, rows[0].Line)
	assert.True(t, rows[0].Timestamp.Equal(time.Date(2024, 5, 2, 8, 3, 0, 0, manila)))
	assert.True(t, rows[1].Timestamp.Equal(time.Date(2024, 5, 2, 17, 45, 10, 0, manila)))

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 5, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Message, "employee number")
	assert.Equal(t, 6, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Message, "timestamp")
}

func TestParse_DateAndTimeColumns(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Emp ID", "Date", "Time"},
		{7, "2024-05-03", "07:58"},
		{7, "05/03/2024", "5:30 PM"},
	})

	rows, rowErrs, err := Parse(buf, manila)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Timestamp.Equal(time.Date(2024, 5, 3, 7, 58, 0, 0, manila)))
	assert.True(t, rows[1].Timestamp.Equal(time.Date(2024, 5, 3, 17, 30, 0, 0, manila)))
}

func TestParse_ExcelSerialTimestamp(t *testing.T) {
	// 45415 is 2024-05-03; .5 is noon.
	buf := workbook(t, [][]interface{}{
		{"employee number", "datetime"},
		{9, 45415.5},
	})

	rows, _, err := Parse(buf, manila)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Timestamp.Equal(time.Date(2024, 5, 3, 12, 0, 0, 0, manila)))
}

func TestParse_MissingColumns(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Name", "Timestamp"},
		{"Maria", "2024-05-02 08:03:00"},
	})
	_, _, err := Parse(buf, manila)
	assert.ErrorIs(t, err, biometric.ErrMissingColumns)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, _, err := Parse(strings.NewReader("employee,timestamp\n1,2024-01-01"), manila)
	assert.ErrorIs(t, err, biometric.ErrInvalidWorkbook)
}
