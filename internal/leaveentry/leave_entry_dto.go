package leaveentry

import (
	"go-payroll/internal/salaryrecord"

	"github.com/shopspring/decimal"
)

type CreateLeaveEntryRequest struct {
	LeaveDate string `json:"leave_date" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"max=255"`
}

// ReconciledRecord is the part of the owning record an entry change touches.
type ReconciledRecord struct {
	ID              string          `json:"id"`
	AttendanceDays  int             `json:"attendance_days"`
	LeaveUnpaid     int             `json:"leave_unpaid"`
	PaidLeave       int             `json:"paid_leave"`
	TotalCalculated decimal.Decimal `json:"total_calculated"`
}

type MutationResponse struct {
	Entry  *salaryrecord.LeaveEntryResponse `json:"entry,omitempty"`
	Record ReconciledRecord                 `json:"record"`
}
