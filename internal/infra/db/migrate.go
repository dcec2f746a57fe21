package db

import "database/sql"

// MigrateUp creates the audit tables and their indexes. Both tables
// are append-only; nothing in the service updates or deletes rows.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS telegram_notifications (
    id                SERIAL PRIMARY KEY,
    chat_id           TEXT NOT NULL,
    message_id        BIGINT,
    notification_type TEXT NOT NULL,
    success           BOOLEAN NOT NULL,
    data              JSONB,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS telegram_broadcasts (
    id                SERIAL PRIMARY KEY,
    notification_type TEXT NOT NULL,
    total_recipients  INTEGER NOT NULL,
    successful_sends  INTEGER NOT NULL,
    failed_sends      INTEGER NOT NULL,
    success_rate      INTEGER NOT NULL,
    data              JSONB,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// レート制限の窓クエリ用(chat_id + success + created_at)
		`CREATE INDEX IF NOT EXISTS idx_tg_notifications_window
             ON telegram_notifications(chat_id, created_at)
             WHERE success = TRUE`,
		// 配信履歴の取得用
		`CREATE INDEX IF NOT EXISTS idx_tg_notifications_chat_recent
             ON telegram_notifications(chat_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tg_broadcasts_created_at
             ON telegram_broadcasts(created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}
