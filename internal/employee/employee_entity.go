package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShopID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_employee_code,priority:1"`
	EmployeeCode string          `gorm:"type:varchar(32);not null;uniqueIndex:uq_employee_code,priority:2"`
	Name         string          `gorm:"type:varchar(150);not null"`
	Designation  string          `gorm:"type:varchar(100)"`
	BaseSalary   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
