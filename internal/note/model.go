package note

import (
	"time"

	"github.com/lib/pq"
)

// Note is the primary user-owned content entity. Hard-deleted on destroy.
type Note struct {
	ID         uint64    `gorm:"primaryKey"`
	OwnerID    uint64    `gorm:"index;not null"`
	Title      string    `gorm:"size:100;not null"`
	Content    string    `gorm:"type:text;not null"`
	IsPinned   bool      `gorm:"not null;default:false"`
	IsArchived bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// Tag is a per-user label. The storage-level unique index on (owner_id, name)
// is case-sensitive; the service layer rejects duplicates case-insensitively.
type Tag struct {
	ID        uint64    `gorm:"primaryKey"`
	OwnerID   uint64    `gorm:"index;not null"`
	Name      string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// NoteTag is the note/tag join table. Rows reference tags without re-owning
// them: a sent copy keeps associations to tags its new owner may not own.
type NoteTag struct {
	NoteID uint64 `gorm:"primaryKey"`
	TagID  uint64 `gorm:"primaryKey"`
}

// NoteVersion is an immutable point-in-time snapshot of a note's title and
// content (full copy, not a diff). Rows are only ever inserted or
// bulk-deleted, and are removed together with their note.
type NoteVersion struct {
	ID          uint64 `gorm:"primaryKey"`
	NoteID      uint64 `gorm:"index;not null"`
	Title       string `gorm:"size:100;not null"`
	Content     string `gorm:"type:text;not null"`
	// Tag names at capture time, stored as a Postgres array literal.
	TagNames    pq.StringArray `gorm:"type:text"`
	UpdatedByID *uint64        `gorm:"index"`
	CreatedAt   time.Time      `gorm:"index;not null"`
}

// NoteSend records that a note was sent (as a copy) from one user to another.
// OriginalNoteID is nulled out if the source note is later deleted; the row
// itself survives.
type NoteSend struct {
	ID             uint64    `gorm:"primaryKey"`
	OriginalNoteID *uint64   `gorm:"index"`
	SenderID       uint64    `gorm:"index;not null"`
	RecipientID    uint64    `gorm:"index;not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

// NoteEvent is the append-only audit trail backing analytics. ActorUsername
// and NoteTitle are frozen at write time so the row stays readable after the
// user or note is deleted; the references themselves are weak and null out.
type NoteEvent struct {
	ID            uint64    `gorm:"primaryKey"`
	UserID        *uint64   `gorm:"index"`
	NoteID        *uint64   `gorm:"index"`
	ActorUsername string    `gorm:"not null"`
	NoteTitle     string    `gorm:"not null"`
	Action        string    `gorm:"size:10;index;not null"`
	CreatedAt     time.Time `gorm:"index;not null"`
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSend   = "send"
)

// Actions in canonical order, used for filter defaults and deterministic output.
var Actions = []string{ActionCreate, ActionUpdate, ActionDelete, ActionSend}
