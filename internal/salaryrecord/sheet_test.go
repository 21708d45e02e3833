package salaryrecord_test

import (
	"bytes"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/salaryrecord"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetRecords() []salaryrecord.SalaryRecord {
	return []salaryrecord.SalaryRecord{
		{
			Employee:        employee.Employee{EmployeeCode: "EMP-0001", Name: "Arif (Senior)", BaseSalary: decimal.NewFromInt(15000)},
			AttendanceDays:  28,
			LeaveUnpaid:     2,
			Bonus:           decimal.NewFromInt(500),
			TotalCalculated: decimal.RequireFromString("14500"),
			Status:          salaryrecord.StatusPaid,
			LeaveEntries: []salaryrecord.LeaveEntry{
				{LeaveDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
				{LeaveDate: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			Employee:        employee.Employee{EmployeeCode: "EMP-0002", Name: "Rina", BaseSalary: decimal.NewFromInt(9000)},
			AttendanceDays:  30,
			Penalty:         decimal.NewFromInt(250),
			TotalCalculated: decimal.RequireFromString("8750"),
			Status:          salaryrecord.StatusPending,
		},
	}
}

func TestNewSheet(t *testing.T) {
	sheet := salaryrecord.NewSheet("Main", 3, 2024, sheetRecords())

	assert.Equal(t, "Salary Sheet - Main - March 2024", sheet.Title())
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"04 Mar", "11 Mar"}, sheet.Rows[0].LeaveDates)
	assert.Equal(t, "23250.00", sheet.Totals.Total.StringFixed(2))
	assert.Equal(t, "14500.00", sheet.Totals.Paid.StringFixed(2))
	assert.Equal(t, "8750.00", sheet.Totals.Pending.StringFixed(2))
	assert.Equal(t, "24000.00", sheet.Totals.BaseSalary.StringFixed(2))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "13,300.00", salaryrecord.FormatAmount(decimal.RequireFromString("13300")))
	assert.Equal(t, "1,234,567.89", salaryrecord.FormatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "0.50", salaryrecord.FormatAmount(decimal.RequireFromString("0.5")))
	assert.Equal(t, "-12.00", salaryrecord.FormatAmount(decimal.NewFromInt(-12)))
}

func TestRenderPDF(t *testing.T) {
	body, err := salaryrecord.RenderPDF(salaryrecord.NewSheet("Main", 3, 2024, sheetRecords()))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-1.4")))
	assert.True(t, bytes.HasSuffix(body, []byte("%%EOF")))
	assert.Contains(t, string(body), `Arif \(Senior\)`)
	assert.Contains(t, string(body), "Total payroll: 23,250.00")
}

func TestRenderPDF_TruncatesByCharacter(t *testing.T) {
	records := []salaryrecord.SalaryRecord{{
		Employee: employee.Employee{EmployeeCode: "EMP-0009", Name: "Ñandú Çelik Ünlüoğlu Bey"},
		Status:   salaryrecord.StatusPending,
	}}

	body, err := salaryrecord.RenderPDF(salaryrecord.NewSheet("Main", 3, 2024, records))

	require.NoError(t, err)
	// one placeholder per non-ASCII character, cut at the 20 character column
	assert.Contains(t, string(body), "EMP-0009   ?and? ?elik ?nl?o?lu ")
	assert.NotContains(t, string(body), "Bey")
}

func TestRenderPDF_Paginates(t *testing.T) {
	var records []salaryrecord.SalaryRecord
	for i := 0; i < 120; i++ {
		records = append(records, salaryrecord.SalaryRecord{Status: salaryrecord.StatusPending})
	}

	body, err := salaryrecord.RenderPDF(salaryrecord.NewSheet("Main", 3, 2024, records))

	require.NoError(t, err)
	assert.Contains(t, string(body), "/Count 3")
}

func TestRenderXLSX(t *testing.T) {
	body, err := salaryrecord.RenderXLSX(salaryrecord.NewSheet("Main", 3, 2024, sheetRecords()))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Salary Sheet", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Salary Sheet - Main - March 2024", title)

	name, err := f.GetCellValue("Salary Sheet", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Arif (Senior)", name)

	leaves, err := f.GetCellValue("Salary Sheet", "M4")
	require.NoError(t, err)
	assert.Equal(t, "04 Mar, 11 Mar", leaves)

	label, err := f.GetCellValue("Salary Sheet", "A7")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)
}
