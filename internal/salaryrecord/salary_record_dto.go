package salaryrecord

import "github.com/shopspring/decimal"

type GenerateRequest struct {
	ShopID string `json:"shop_id" binding:"required,uuid"`
	Month  int    `json:"month" binding:"required,min=1,max=12"`
	Year   int    `json:"year" binding:"required,min=2000,max=2100"`
}

type GenerateResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

type GetSalaryRecordsFilterRequest struct {
	ShopID     string `form:"shop_id" binding:"omitempty,uuid"`
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Status     string `form:"status" binding:"omitempty,oneof=Paid Pending"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`

	WithLeaveEntries bool `form:"-"`
}

// UpdateSalaryRecordRequest is a partial edit. Nil fields keep their value.
type UpdateSalaryRecordRequest struct {
	AttendanceDays      *int             `json:"attendance_days"`
	LeaveUnpaid         *int             `json:"leave_unpaid"`
	PaidLeave           *int             `json:"paid_leave"`
	Bonus               *decimal.Decimal `json:"bonus"`
	Penalty             *decimal.Decimal `json:"penalty"`
	AdvanceTaken        *decimal.Decimal `json:"advance_taken"`
	IncrementAdjustment *decimal.Decimal `json:"increment_adjustment"`
	Notes               *string          `json:"notes" binding:"omitempty,max=1000"`
	Status              *string          `json:"status" binding:"omitempty,oneof=Paid Pending"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Paid Pending"`
}

// PreviewRequest mirrors an edit form. When both attendance_days and
// leave_unpaid are sent, attendance_days wins.
type PreviewRequest struct {
	BaseSalary          decimal.Decimal `json:"base_salary"`
	AttendanceDays      *int            `json:"attendance_days"`
	LeaveUnpaid         *int            `json:"leave_unpaid"`
	PaidLeave           int             `json:"paid_leave"`
	Bonus               decimal.Decimal `json:"bonus"`
	IncrementAdjustment decimal.Decimal `json:"increment_adjustment"`
	AdvanceTaken        decimal.Decimal `json:"advance_taken"`
	Penalty             decimal.Decimal `json:"penalty"`
}

type PreviewResponse struct {
	AttendanceDays int             `json:"attendance_days"`
	LeaveUnpaid    int             `json:"leave_unpaid"`
	PaidLeave      int             `json:"paid_leave"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	Total          decimal.Decimal `json:"total"`
}

type SummaryFilterRequest struct {
	Month  int    `form:"month" binding:"required,min=1,max=12"`
	Year   int    `form:"year" binding:"required,min=2000,max=2100"`
	ShopID string `form:"shop_id" binding:"omitempty,uuid"`
}

type SummaryResponse struct {
	ShopID       string          `json:"shop_id,omitempty"`
	ShopName     string          `json:"shop_name,omitempty"`
	TotalPayroll decimal.Decimal `json:"total_payroll"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
	RecordCount  int64           `json:"record_count"`
	PaidCount    int64           `json:"paid_count"`
	PendingCount int64           `json:"pending_count"`
}

type ExportRequest struct {
	ShopID     string `form:"shop_id" binding:"required,uuid"`
	Month      int    `form:"month" binding:"required,min=1,max=12"`
	Year       int    `form:"year" binding:"required,min=2000,max=2100"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Format     string `form:"format" binding:"omitempty,oneof=pdf xlsx"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type LeaveEntryResponse struct {
	ID        string `json:"id"`
	LeaveDate string `json:"leave_date"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

type SalaryRecordResponse struct {
	ID                  string               `json:"id"`
	EmployeeID          string               `json:"employee_id"`
	ShopID              string               `json:"shop_id"`
	EmployeeName        string               `json:"employee_name"`
	EmployeeCode        string               `json:"employee_code"`
	Designation         string               `json:"designation"`
	BaseSalary          decimal.Decimal      `json:"base_salary"`
	Month               int                  `json:"month"`
	Year                int                  `json:"year"`
	AttendanceDays      int                  `json:"attendance_days"`
	LeaveUnpaid         int                  `json:"leave_unpaid"`
	PaidLeave           int                  `json:"paid_leave"`
	Bonus               decimal.Decimal      `json:"bonus"`
	Penalty             decimal.Decimal      `json:"penalty"`
	AdvanceTaken        decimal.Decimal      `json:"advance_taken"`
	IncrementAdjustment decimal.Decimal      `json:"increment_adjustment"`
	TotalCalculated     decimal.Decimal      `json:"total_calculated"`
	Status              string               `json:"status"`
	DaysInMonth         int                  `json:"days_in_month"`
	Notes               *string              `json:"notes,omitempty"`
	LeaveEntries        []LeaveEntryResponse `json:"leave_entries,omitempty"`
	UpdatedAt           string               `json:"updated_at"`
}
