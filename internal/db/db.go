package db

import (
	"fmt"

	"quill/internal/auth"
	"quill/internal/note"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&note.Note{},
		&note.Tag{},
		&note.NoteTag{},
		&note.NoteVersion{},
		&note.NoteSend{},
		&note.NoteEvent{},
	); err != nil {
		return err
	}

	// Constraints / unique (owner_id, name) for tags.
	// Deliberately case-sensitive; the service layer additionally rejects
	// duplicates case-insensitively.
	if err := gdb.Exec(`create unique index if not exists uq_tags_owner_name on tags(owner_id, name);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_notes_owner_pinned on notes(owner_id, is_pinned desc, created_at desc);`,
		`create index if not exists idx_versions_note_created on note_versions(note_id, created_at desc);`,
		`create index if not exists idx_events_user_action_created on note_events(user_id, action, created_at);`,
		`create index if not exists idx_sends_sender_created on note_sends(sender_id, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
