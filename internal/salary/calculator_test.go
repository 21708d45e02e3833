package salary_test

import (
	"testing"

	"go-payroll/internal/salary"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCalculate(t *testing.T) {
	t.Run("full attendance returns base salary", func(t *testing.T) {
		for _, base := range []string{"0", "1", "15000", "10000", "12345.67", "9999.99", "0.01", "100000.005"} {
			got := salary.Calculate(salary.Input{
				BaseSalary:     dec(base),
				AttendanceDays: salary.DaysPerMonth,
			})
			assert.True(t, dec(base).Round(2).Equal(got), "base %s got %s", base, got)
		}
	})

	t.Run("example month with adjustments", func(t *testing.T) {
		got := salary.Calculate(salary.Input{
			BaseSalary:          dec("15000"),
			AttendanceDays:      28,
			Bonus:               dec("500"),
			IncrementAdjustment: decimal.Zero,
			AdvanceTaken:        dec("1000"),
			Penalty:             dec("200"),
		})
		assert.Equal(t, "13300", got.String())
		assert.Equal(t, "13300.00", got.StringFixed(2))
	})

	t.Run("fractional daily rate rounds only the total", func(t *testing.T) {
		got := salary.Calculate(salary.Input{
			BaseSalary:     dec("10000"),
			AttendanceDays: 29,
		})
		// 333.33 * 29 would give 9666.57
		assert.Equal(t, "9666.67", got.StringFixed(2))

		got = salary.Calculate(salary.Input{
			BaseSalary:     dec("10000"),
			AttendanceDays: 1,
		})
		assert.Equal(t, "333.33", got.StringFixed(2))
	})

	t.Run("half cent rounds up", func(t *testing.T) {
		// 0.15 * 1 / 30 = 0.005
		got := salary.Calculate(salary.Input{
			BaseSalary:     dec("0.15"),
			AttendanceDays: 1,
		})
		assert.Equal(t, "0.01", got.StringFixed(2))
	})

	t.Run("never negative", func(t *testing.T) {
		got := salary.Calculate(salary.Input{
			BaseSalary:     dec("3000"),
			AttendanceDays: 2,
			AdvanceTaken:   dec("5000"),
			Penalty:        dec("100"),
		})
		assert.True(t, got.Equal(decimal.Zero))
		assert.False(t, got.IsNegative())
	})

	t.Run("zero base uses adjustments only", func(t *testing.T) {
		got := salary.Calculate(salary.Input{
			BaseSalary:          decimal.Zero,
			AttendanceDays:      30,
			Bonus:               dec("700"),
			IncrementAdjustment: dec("300"),
			Penalty:             dec("250.5"),
		})
		assert.Equal(t, "749.50", got.StringFixed(2))
	})

	t.Run("paid leave is paid at the daily rate", func(t *testing.T) {
		got := salary.Calculate(salary.Input{
			BaseSalary:     dec("15000"),
			AttendanceDays: 25,
			PaidLeave:      2,
		})
		assert.Equal(t, "13500.00", got.StringFixed(2))
	})

	t.Run("monotonic in adjustments", func(t *testing.T) {
		base := salary.Input{
			BaseSalary:     dec("12000"),
			AttendanceDays: 20,
			AdvanceTaken:   dec("2000"),
			Penalty:        dec("100"),
		}
		prev := salary.Calculate(base)
		for i := 1; i <= 5; i++ {
			in := base
			in.Bonus = decimal.NewFromInt(int64(i * 250))
			in.IncrementAdjustment = decimal.NewFromInt(int64(i * 10))
			got := salary.Calculate(in)
			assert.True(t, got.GreaterThanOrEqual(prev))
			prev = got
		}

		prev = salary.Calculate(base)
		for i := 1; i <= 10; i++ {
			in := base
			in.AdvanceTaken = base.AdvanceTaken.Add(decimal.NewFromInt(int64(i * 1000)))
			in.Penalty = base.Penalty.Add(decimal.NewFromInt(int64(i * 5)))
			got := salary.Calculate(in)
			assert.True(t, got.LessThanOrEqual(prev))
			assert.False(t, got.IsNegative())
			prev = got
		}
	})
}

func TestDailyRate(t *testing.T) {
	assert.Equal(t, "500.00", salary.DailyRate(dec("15000")).StringFixed(2))
	assert.Equal(t, "333.33", salary.DailyRate(dec("10000")).StringFixed(2))
}
