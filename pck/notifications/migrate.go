package notifications

import (
	"database/sql"
	"fmt"
)

// migrate applies the schema. Idempotent: safe to run on every open.
func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT    NOT NULL,
	kind       TEXT    NOT NULL,
	message    TEXT    NOT NULL,
	priority   TEXT    NOT NULL DEFAULT 'normal',
	data       TEXT    NOT NULL DEFAULT '{}',
	is_read    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications (is_read);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate notifications schema: %w", err)
	}
	return nil
}
