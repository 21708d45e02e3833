package salary

import "github.com/shopspring/decimal"

// DaysPerMonth is the fixed accounting month used for every salary calculation,
// independent of the calendar length of the month.
const DaysPerMonth = 30

// Input holds one month of pay inputs for a single employee.
type Input struct {
	BaseSalary          decimal.Decimal
	AttendanceDays      int
	PaidLeave           int
	Bonus               decimal.Decimal
	IncrementAdjustment decimal.Decimal
	AdvanceTaken        decimal.Decimal
	Penalty             decimal.Decimal
}

// Calculate returns the monthly total rounded half up to two decimals and
// floored at zero. Only the final total is rounded.
func Calculate(in Input) decimal.Decimal {
	paidDays := decimal.NewFromInt(int64(in.AttendanceDays + in.PaidLeave))

	// multiply before dividing so a full month returns the base salary exactly
	earned := in.BaseSalary.Mul(paidDays).Div(decimal.NewFromInt(DaysPerMonth))

	total := earned.
		Add(in.Bonus).
		Add(in.IncrementAdjustment).
		Sub(in.AdvanceTaken).
		Sub(in.Penalty).
		Round(2)

	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// DailyRate is the base salary divided by DaysPerMonth, rounded for display.
func DailyRate(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(decimal.NewFromInt(DaysPerMonth)).Round(2)
}
