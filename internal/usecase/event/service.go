package event

import (
	"context"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/usecase/dispatch"
)

// SingleSender delivers to one destination. Implemented by
// dispatch.Sender.
type SingleSender interface {
	Send(ctx context.Context, chatID string, msg entity.Message, category string, data map[string]any) dispatch.SendResult
}

// BatchSender fans out to many destinations. Implemented by
// dispatch.Broadcaster.
type BatchSender interface {
	Broadcast(ctx context.Context, chatIDs []string, msg entity.Message, category string, data map[string]any) dispatch.BroadcastResult
}

// Service maps suite events onto sends and broadcasts. Validation of
// the event payload happens at the HTTP layer; the methods here
// assume well-formed events.
type Service struct {
	Sender      SingleSender
	Broadcaster BatchSender
}

// OrderCreated broadcasts the new-order message to the kitchen and
// floor chats.
func (s Service) OrderCreated(ctx context.Context, e OrderCreated) dispatch.BroadcastResult {
	data := map[string]any{
		"order_id":    e.OrderID,
		"table_label": e.TableLabel,
		"item_count":  len(e.Items),
	}
	return s.Broadcaster.Broadcast(ctx, e.ChatIDs, RenderOrderCreated(e), CategoryOrderCreated, data)
}

// ShiftPublished broadcasts the published schedule to every affected
// employee.
func (s Service) ShiftPublished(ctx context.Context, e ShiftPublished) dispatch.BroadcastResult {
	data := map[string]any{
		"week_start":  e.WeekStart,
		"shift_count": e.ShiftCount,
	}
	return s.Broadcaster.Broadcast(ctx, e.ChatIDs, RenderShiftPublished(e), CategoryShiftPublished, data)
}

// LeaveDecided notifies the requesting employee of the decision.
func (s Service) LeaveDecided(ctx context.Context, e LeaveDecided) dispatch.SendResult {
	data := map[string]any{
		"request_kind": e.RequestKind,
		"date":         e.Date,
		"approved":     e.Approved,
	}
	return s.Sender.Send(ctx, e.ChatID, RenderLeaveDecided(e), CategoryLeaveDecided, data)
}

// PayrollIssued notifies the employee that a payslip is ready.
func (s Service) PayrollIssued(ctx context.Context, e PayrollIssued) dispatch.SendResult {
	data := map[string]any{
		"period": e.Period,
	}
	return s.Sender.Send(ctx, e.ChatID, RenderPayrollIssued(e), CategoryPayrollIssued, data)
}
