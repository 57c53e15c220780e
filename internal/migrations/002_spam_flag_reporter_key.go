package migrations

import (
	"gorm.io/gorm"
)

// Migration002SpamFlagReporterKey rekeys spam_flags from conversation_id
// alone to (conversation_id, reporter_id), so both participants of a
// conversation can hold their own flag. Postgres-only DDL; fresh
// installs get the composite key straight from AutoMigrate.
func Migration002SpamFlagReporterKey() Migration {
	return Migration{
		ID:        "002_spam_flag_reporter_key",
		Name:      "Key spam flags per reporter",
		DependsOn: []string{"001_add_message_indexes"},
		Up: func(db *gorm.DB) error {
			alter := `
				ALTER TABLE spam_flags
				DROP CONSTRAINT IF EXISTS spam_flags_pkey,
				ADD PRIMARY KEY (conversation_id, reporter_id)
			`
			return db.Exec(alter).Error
		},
		Down: func(db *gorm.DB) error {
			// Collapses to one flag per conversation; keep the oldest.
			dedupe := `
				DELETE FROM spam_flags a
				USING spam_flags b
				WHERE a.conversation_id = b.conversation_id
				  AND a.created_at > b.created_at
			`
			if err := db.Exec(dedupe).Error; err != nil {
				return err
			}
			alter := `
				ALTER TABLE spam_flags
				DROP CONSTRAINT IF EXISTS spam_flags_pkey,
				ADD PRIMARY KEY (conversation_id)
			`
			return db.Exec(alter).Error
		},
	}
}
