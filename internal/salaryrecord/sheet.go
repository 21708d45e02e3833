package salaryrecord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sheet is the printable salary sheet of one shop and month.
type Sheet struct {
	ShopName string
	Month    int
	Year     int
	Rows     []SheetRow
	Totals   SheetTotals
}

type SheetRow struct {
	EmployeeCode        string
	Name                string
	Designation         string
	BaseSalary          decimal.Decimal
	AttendanceDays      int
	LeaveUnpaid         int
	Bonus               decimal.Decimal
	IncrementAdjustment decimal.Decimal
	AdvanceTaken        decimal.Decimal
	Penalty             decimal.Decimal
	Total               decimal.Decimal
	Status              string
	LeaveDates          []string
}

type SheetTotals struct {
	BaseSalary          decimal.Decimal
	Bonus               decimal.Decimal
	IncrementAdjustment decimal.Decimal
	AdvanceTaken        decimal.Decimal
	Penalty             decimal.Decimal
	Total               decimal.Decimal
	Paid                decimal.Decimal
	Pending             decimal.Decimal
}

var sheetColumns = []string{
	"Code", "Name", "Designation", "Base", "Attendance", "Leave",
	"Bonus", "Increment", "Advance", "Penalty", "Total", "Status", "Leave Dates",
}

var amountPrinter = message.NewPrinter(language.English)

func NewSheet(shopName string, month, year int, records []SalaryRecord) Sheet {
	sheet := Sheet{ShopName: shopName, Month: month, Year: year}

	for _, rec := range records {
		dates := make([]string, len(rec.LeaveEntries))
		for i, e := range rec.LeaveEntries {
			dates[i] = e.LeaveDate.Format("02 Jan")
		}

		sheet.Rows = append(sheet.Rows, SheetRow{
			EmployeeCode:        rec.Employee.EmployeeCode,
			Name:                rec.Employee.Name,
			Designation:         rec.Employee.Designation,
			BaseSalary:          rec.Employee.BaseSalary,
			AttendanceDays:      rec.AttendanceDays,
			LeaveUnpaid:         rec.LeaveUnpaid,
			Bonus:               rec.Bonus,
			IncrementAdjustment: rec.IncrementAdjustment,
			AdvanceTaken:        rec.AdvanceTaken,
			Penalty:             rec.Penalty,
			Total:               rec.TotalCalculated,
			Status:              rec.Status,
			LeaveDates:          dates,
		})

		t := &sheet.Totals
		t.BaseSalary = t.BaseSalary.Add(rec.Employee.BaseSalary)
		t.Bonus = t.Bonus.Add(rec.Bonus)
		t.IncrementAdjustment = t.IncrementAdjustment.Add(rec.IncrementAdjustment)
		t.AdvanceTaken = t.AdvanceTaken.Add(rec.AdvanceTaken)
		t.Penalty = t.Penalty.Add(rec.Penalty)
		t.Total = t.Total.Add(rec.TotalCalculated)
		if rec.Status == StatusPaid {
			t.Paid = t.Paid.Add(rec.TotalCalculated)
		} else {
			t.Pending = t.Pending.Add(rec.TotalCalculated)
		}
	}

	return sheet
}

func (s Sheet) Title() string {
	return fmt.Sprintf("Salary Sheet - %s - %s %d", s.ShopName, time.Month(s.Month), s.Year)
}

// Filename is the download name without extension.
func (s Sheet) Filename() string {
	shop := strings.ToLower(strings.Join(strings.Fields(s.ShopName), "-"))
	return fmt.Sprintf("salary-sheet-%s-%d-%02d", shop, s.Year, s.Month)
}

// FormatAmount renders a two decimal amount with thousands separators.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}

	out := amountPrinter.Sprintf("%d", n) + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
