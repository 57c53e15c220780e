package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddMessageIndexes adds composite indexes for the
// messaging hot paths AutoMigrate's single-column indexes miss:
// 1. unread counting / mark-read: (sender_id, recipient_id, is_read)
// 2. per-conversation history:    (conversation_id, created_at)
//
// All statements are idempotent (IF NOT EXISTS) for safe re-runs.
// PostgreSQL's CREATE INDEX CONCURRENTLY cannot run inside the
// migrator's transaction; for large production tables run the
// concurrent variant manually instead.
func Migration001AddMessageIndexes() Migration {
	return Migration{
		ID:   "001_add_message_indexes",
		Name: "Add composite indexes for messaging hot paths",
		Up: func(db *gorm.DB) error {
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_messages_read_path
				ON messages (sender_id, recipient_id, is_read)
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_messages_conversation_time
				ON messages (conversation_id, created_at)
			`
			return db.Exec(idx2).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_messages_read_path`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_messages_conversation_time`).Error
		},
	}
}
