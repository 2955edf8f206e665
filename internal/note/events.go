package note

import (
	"time"

	"gorm.io/gorm"
)

// logEvent appends one audit row. Actor username and note title are
// denormalized at call time so the event stays meaningful after the subject
// rows are gone. A nil actor means the mutation was anonymous; the event is
// skipped entirely instead of being written with a dangling reference.
func logEvent(tx *gorm.DB, actor *Actor, noteID *uint64, noteTitle, action string) error {
	if actor == nil {
		return nil
	}
	userID := actor.ID
	ev := NoteEvent{
		UserID:        &userID,
		NoteID:        noteID,
		ActorUsername: actor.Username,
		NoteTitle:     noteTitle,
		Action:        action,
		CreatedAt:     time.Now().UTC(),
	}
	return tx.Create(&ev).Error
}
