package events

import "time"

const SalarySheetTopic = "payroll.salary_sheet.v1"

const (
	EventTypeSalarySheetGenerated = "salary_sheet_generated"
	EventTypeSalaryStatusChanged  = "salary_record_status_changed"
)

// SalarySheetGeneratedEvent is emitted once per shop and period when
// generation inserted at least one record.
type SalarySheetGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	ShopID     string    `json:"shop_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SalaryRecordStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	SalaryRecordID string    `json:"salary_record_id"`
	EmployeeID     string    `json:"employee_id"`
	ShopID         string    `json:"shop_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	FromStatus     string    `json:"from_status"`
	ToStatus       string    `json:"to_status"`
	ChangedBy      string    `json:"changed_by,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
