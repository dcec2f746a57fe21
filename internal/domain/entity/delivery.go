package entity

import "time"

// DeliveryRecord is one row of the append-only send audit log.
// Exactly one record is written per terminal send attempt, whether the
// send succeeded or failed after classification. MessageID is nil for
// failed sends.
type DeliveryRecord struct {
	ID        int64
	ChatID    string
	MessageID *int64
	Category  string
	Success   bool
	Data      map[string]any
	CreatedAt time.Time
}

// BroadcastSummary is one row of the append-only broadcast audit log.
// A broadcast to N destinations produces at most N DeliveryRecords and
// exactly one summary.
type BroadcastSummary struct {
	ID              int64
	Category        string
	TotalRecipients int
	SuccessfulSends int
	FailedSends     int
	SuccessRate     int
	Data            map[string]any
	CreatedAt       time.Time
}
