package salaryrecord

import (
	"time"

	"go-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"
)

type SalaryRecord struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_salary_record_period,priority:1"`
	ShopID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Month               int             `gorm:"not null;uniqueIndex:uq_salary_record_period,priority:2"`
	Year                int             `gorm:"not null;uniqueIndex:uq_salary_record_period,priority:3"`
	AttendanceDays      int             `gorm:"not null"`
	LeaveUnpaid         int             `gorm:"not null"`
	PaidLeave           int             `gorm:"not null"`
	Bonus               decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Penalty             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AdvanceTaken        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	IncrementAdjustment decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalCalculated     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status              string          `gorm:"type:varchar(16);not null"`
	DaysInMonth         int             `gorm:"not null"`
	Notes               *string         `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Employee     employee.Employee `gorm:"foreignKey:EmployeeID"`
	LeaveEntries []LeaveEntry      `gorm:"foreignKey:SalaryRecordID"`
}

// LeaveEntry is one day of unpaid leave inside a record's month.
type LeaveEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SalaryRecordID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_entry_date,priority:1"`
	LeaveDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_leave_entry_date,priority:2"`
	Reason         string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
}

// Shop is the slice of a shop row this package reads.
type Shop struct {
	ID   uuid.UUID
	Name string
}

// PeriodTotal is one (shop, status) bucket of a month.
type PeriodTotal struct {
	ShopID string
	Status string
	Count  int64
	Total  decimal.Decimal
}

// DaysInMonth returns the calendar length of month in year.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// InPeriod reports whether d falls in the record's month.
func (r SalaryRecord) InPeriod(d time.Time) bool {
	return d.Year() == r.Year && int(d.Month()) == r.Month
}
