package migrations

import (
	"gorm.io/gorm"
)

// Migration001MessageThreadIndexes covers the two hot conversation queries:
// 1. Thread listing: WHERE (sender_id, receiver_id) in either order ORDER BY timestamp DESC
// 2. Read flip: WHERE receiver_id = ? AND sender_id = ? AND is_read = false
//
// The unread index is partial so it only holds messages still waiting to be read.
func Migration001MessageThreadIndexes() Migration {
	return Migration{
		ID:   "001_message_thread_indexes",
		Name: "Add conversation thread and unread indexes",
		Up: func(db *gorm.DB) error {
			thread := `
				CREATE INDEX IF NOT EXISTS idx_messages_thread
				ON messages (sender_id, receiver_id, timestamp DESC)
			`
			if err := db.Exec(thread).Error; err != nil {
				return err
			}

			unread := `
				CREATE INDEX IF NOT EXISTS idx_messages_unread
				ON messages (receiver_id, sender_id)
				WHERE is_read = false
			`
			return db.Exec(unread).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_messages_unread`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_messages_thread`).Error
		},
	}
}
