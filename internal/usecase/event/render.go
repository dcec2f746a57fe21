package event

import (
	"fmt"
	"strings"

	"resto-notify/internal/domain/entity"
)

// markdownEscaper neutralizes the legacy Markdown control characters
// in user-supplied text (names, notes) so a stray underscore cannot
// break rendering.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderOrderCreated builds the kitchen/floor message for a new order.
func RenderOrderCreated(e OrderCreated) entity.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "*New order* #%d", e.OrderID)
	if e.TableLabel != "" {
		fmt.Fprintf(&b, " (table %s)", escape(e.TableLabel))
	}
	b.WriteString("\n")
	for _, item := range e.Items {
		fmt.Fprintf(&b, "• %s ×%d\n", escape(item.Name), item.Quantity)
	}
	if e.Note != "" {
		fmt.Fprintf(&b, "_Note: %s_\n", escape(e.Note))
	}
	return entity.Message{Text: strings.TrimRight(b.String(), "\n"), Mode: entity.ModeMarkdown}
}

// RenderShiftPublished builds the employee message for a published
// schedule, with a button to the schedule page when a URL is given.
func RenderShiftPublished(e ShiftPublished) entity.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "*Shift schedule published*\nWeek of %s", escape(e.WeekStart))
	if e.ShiftCount > 0 {
		fmt.Fprintf(&b, " (%d shifts)", e.ShiftCount)
	}
	msg := entity.Message{Text: b.String(), Mode: entity.ModeMarkdown}
	if e.ViewURL != "" {
		msg.Buttons = [][]entity.Button{{{Text: "View schedule", URL: e.ViewURL}}}
	}
	return msg
}

// RenderLeaveDecided builds the decision message for a leave or
// overtime request.
func RenderLeaveDecided(e LeaveDecided) entity.Message {
	decision := "approved ✅"
	if !e.Approved {
		decision = "rejected ❌"
	}
	kind := "Leave request"
	if e.RequestKind == "overtime" {
		kind = "Overtime request"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%s %s*\nDate: %s", kind, decision, escape(e.Date))
	if e.Comment != "" {
		fmt.Fprintf(&b, "\n_%s_", escape(e.Comment))
	}
	return entity.Message{Text: b.String(), Mode: entity.ModeMarkdown}
}

// RenderPayrollIssued builds the payslip notification. The amount is
// deliberately omitted from the chat message; only the period and a
// link to the payslip are shared.
func RenderPayrollIssued(e PayrollIssued) entity.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "*Payslip ready*\nPeriod: %s", escape(e.Period))
	msg := entity.Message{Text: b.String(), Mode: entity.ModeMarkdown}
	if e.PayslipURL != "" {
		msg.Buttons = [][]entity.Button{{{Text: "Open payslip", URL: e.PayslipURL}}}
	}
	return msg
}

// RenderShiftReminder builds the recurring daily reminder broadcast
// by the worker.
func RenderShiftReminder(date string) entity.Message {
	return entity.Message{
		Text: fmt.Sprintf("*Shift reminder*\nCheck your shifts for %s before the day starts.", escape(date)),
		Mode: entity.ModeMarkdown,
	}
}
