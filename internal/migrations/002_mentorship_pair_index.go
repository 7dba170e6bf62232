package migrations

import (
	"gorm.io/gorm"
)

// Migration002MentorshipPairIndex speeds up the relationship check run on
// every send: WHERE student_id = ? AND mentor_id = ? AND status = 'accepted'.
func Migration002MentorshipPairIndex() Migration {
	return Migration{
		ID:        "002_mentorship_pair_index",
		Name:      "Add mentorship pair lookup index",
		DependsOn: []string{"001_message_thread_indexes"},
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_mentorship_pair
				ON mentorship_requests (student_id, mentor_id, status)
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_mentorship_pair`).Error
		},
	}
}
