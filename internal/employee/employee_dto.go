package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	ShopID       string          `json:"shop_id" binding:"required,uuid"`
	Name         string          `json:"name" binding:"required,max=150"`
	Designation  string          `json:"designation" binding:"max=100"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	EmployeeCode string          `json:"employee_code" binding:"omitempty,max=32"`
}

// UpdateEmployeeRequest replaces every editable field. An empty employee_code
// keeps the current one.
type UpdateEmployeeRequest struct {
	ShopID       string          `json:"shop_id" binding:"required,uuid"`
	Name         string          `json:"name" binding:"required,max=150"`
	Designation  string          `json:"designation" binding:"max=100"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	EmployeeCode string          `json:"employee_code" binding:"omitempty,max=32"`
}

type GetEmployeesFilterRequest struct {
	ShopID string `form:"shop_id" binding:"omitempty,uuid"`
	Q      string `form:"q"`
}

type EmployeeResponse struct {
	ID           string          `json:"id"`
	ShopID       string          `json:"shop_id"`
	EmployeeCode string          `json:"employee_code"`
	Name         string          `json:"name"`
	Designation  string          `json:"designation"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	CreatedAt    string          `json:"created_at"`
}

type EmployeeOption struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
}
