// Package event turns typed restaurant events into Telegram messages
// and hands them to the dispatch layer. Each event carries the chat
// IDs resolved by the calling application; this service never looks
// up recipients itself.
package event

import "resto-notify/internal/domain/entity"

// Notification categories written to the audit log.
const (
	CategoryOrderCreated   = "order_created"
	CategoryShiftPublished = "shift_published"
	CategoryLeaveDecided   = "leave_decided"
	CategoryPayrollIssued  = "payroll_issued"
	CategoryShiftReminder  = "shift_reminder"
	CategoryManual         = "manual"
)

// OrderItem is one line of a new order.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderCreated fires when a customer order is placed and notifies the
// kitchen and floor group chats.
type OrderCreated struct {
	OrderID    int64       `json:"order_id"`
	TableLabel string      `json:"table_label"`
	Items      []OrderItem `json:"items"`
	Note       string      `json:"note"`
	ChatIDs    []string    `json:"chat_ids"`
}

func (e *OrderCreated) Validate() error {
	if e.OrderID <= 0 {
		return &entity.ValidationError{Field: "order_id", Message: "must be positive"}
	}
	if len(e.Items) == 0 {
		return &entity.ValidationError{Field: "items", Message: "must not be empty"}
	}
	if len(e.ChatIDs) == 0 {
		return &entity.ValidationError{Field: "chat_ids", Message: "must not be empty"}
	}
	return nil
}

// ShiftPublished fires when a weekly schedule goes live and notifies
// every affected employee.
type ShiftPublished struct {
	WeekStart  string   `json:"week_start"`
	ShiftCount int      `json:"shift_count"`
	ViewURL    string   `json:"view_url"`
	ChatIDs    []string `json:"chat_ids"`
}

func (e *ShiftPublished) Validate() error {
	if e.WeekStart == "" {
		return &entity.ValidationError{Field: "week_start", Message: "must not be empty"}
	}
	if len(e.ChatIDs) == 0 {
		return &entity.ValidationError{Field: "chat_ids", Message: "must not be empty"}
	}
	return nil
}

// LeaveDecided fires when a leave or overtime request is approved or
// rejected and notifies the requesting employee.
type LeaveDecided struct {
	EmployeeName string `json:"employee_name"`
	RequestKind  string `json:"request_kind"` // leave or overtime
	Date         string `json:"date"`
	Approved     bool   `json:"approved"`
	Comment      string `json:"comment"`
	ChatID       string `json:"chat_id"`
}

func (e *LeaveDecided) Validate() error {
	if e.ChatID == "" {
		return &entity.ValidationError{Field: "chat_id", Message: "must not be empty"}
	}
	if e.RequestKind != "leave" && e.RequestKind != "overtime" {
		return &entity.ValidationError{Field: "request_kind", Message: "must be leave or overtime"}
	}
	if e.Date == "" {
		return &entity.ValidationError{Field: "date", Message: "must not be empty"}
	}
	return nil
}

// PayrollIssued fires when a payslip is finalized and notifies the
// employee, optionally attaching the payslip document.
type PayrollIssued struct {
	EmployeeName string `json:"employee_name"`
	Period       string `json:"period"`
	NetAmount    int64  `json:"net_amount"`
	Currency     string `json:"currency"`
	PayslipURL   string `json:"payslip_url"`
	ChatID       string `json:"chat_id"`
}

func (e *PayrollIssued) Validate() error {
	if e.ChatID == "" {
		return &entity.ValidationError{Field: "chat_id", Message: "must not be empty"}
	}
	if e.Period == "" {
		return &entity.ValidationError{Field: "period", Message: "must not be empty"}
	}
	if e.NetAmount < 0 {
		return &entity.ValidationError{Field: "net_amount", Message: "must not be negative"}
	}
	return nil
}
