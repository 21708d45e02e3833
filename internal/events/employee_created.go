package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const EventTypeEmployeeCreated = "employee_created"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	ShopID     string    `json:"shop_id"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
