package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateNoteInput struct {
	Title   string
	Content string
	TagIDs  []uint64
	// Actor overrides the ambient request context when set.
	Actor *Actor
}

type UpdateNoteInput struct {
	Title   string
	Content string
	TagIDs  []uint64
	Actor   *Actor
}

// CreateNote inserts the note and its tag associations, then emits one
// action=create audit event, all in one transaction.
func (s *Service) CreateNote(ctx context.Context, ownerID uint64, in CreateNoteInput) (*Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}

	actor := resolveActor(ctx, in.Actor)
	var n Note

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTagOwnership(tx, ownerID, in.TagIDs); err != nil {
			return err
		}

		n = Note{OwnerID: ownerID, Title: title, Content: in.Content}
		if err := tx.Create(&n).Error; err != nil {
			return err
		}
		if err := setTagAssociations(tx, n.ID, in.TagIDs); err != nil {
			return err
		}

		return logEvent(tx, actor, &n.ID, n.Title, ActionCreate)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote applies new field values to an owned note. When title or content
// actually change, the pre-update state is captured as a version BEFORE the
// new values are written, so every version represents a state strictly prior
// to the update it precedes. One action=update event is emitted either way.
func (s *Service) UpdateNote(ctx context.Context, ownerID, noteID uint64, in UpdateNoteInput) (*Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}

	actor := resolveActor(ctx, in.Actor)
	var n Note

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedNote(tx, ownerID, noteID, &n); err != nil {
			return err
		}
		if err := checkTagOwnership(tx, ownerID, in.TagIDs); err != nil {
			return err
		}

		if n.Title != title || n.Content != in.Content {
			if err := snapshot(tx, &n, actor); err != nil {
				return err
			}
		}

		n.Title = title
		n.Content = in.Content
		n.UpdatedAt = time.Now().UTC()
		if err := tx.Model(&Note{}).Where("id = ?", n.ID).
			Updates(map[string]any{
				"title":      n.Title,
				"content":    n.Content,
				"updated_at": n.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("note_id = ?", n.ID).Delete(&NoteTag{}).Error; err != nil {
			return err
		}
		if err := setTagAssociations(tx, n.ID, in.TagIDs); err != nil {
			return err
		}

		return logEvent(tx, actor, &n.ID, n.Title, ActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNote hard-deletes the note, its versions and tag associations. Audit
// rows survive: events and send logs referencing the note have their note
// reference nulled out, and the delete event keeps the title captured before
// the row went away.
func (s *Service) DeleteNote(ctx context.Context, ownerID, noteID uint64, actorOverride *Actor) error {
	actor := resolveActor(ctx, actorOverride)

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Note
		if err := findOwnedNote(tx, ownerID, noteID, &n); err != nil {
			return err
		}
		title := n.Title

		if err := tx.Where("note_id = ?", n.ID).Delete(&NoteVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", n.ID).Delete(&NoteTag{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&NoteEvent{}).Where("note_id = ?", n.ID).
			Update("note_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&NoteSend{}).Where("original_note_id = ?", n.ID).
			Update("original_note_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Note{}, n.ID).Error; err != nil {
			return err
		}

		return logEvent(tx, actor, nil, title, ActionDelete)
	})
}

// TogglePin flips is_pinned, persisting only the flag and updated_at. Title
// and content are untouched, so no version is written; the audit rules still
// apply and one update event is emitted.
func (s *Service) TogglePin(ctx context.Context, ownerID, noteID uint64, actorOverride *Actor) (*Note, error) {
	return s.toggleFlag(ctx, ownerID, noteID, "is_pinned", actorOverride)
}

// ToggleArchive flips is_archived; same rules as TogglePin.
func (s *Service) ToggleArchive(ctx context.Context, ownerID, noteID uint64, actorOverride *Actor) (*Note, error) {
	return s.toggleFlag(ctx, ownerID, noteID, "is_archived", actorOverride)
}

func (s *Service) toggleFlag(ctx context.Context, ownerID, noteID uint64, column string, actorOverride *Actor) (*Note, error) {
	actor := resolveActor(ctx, actorOverride)
	var n Note

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedNote(tx, ownerID, noteID, &n); err != nil {
			return err
		}

		var next bool
		switch column {
		case "is_pinned":
			next = !n.IsPinned
			n.IsPinned = next
		case "is_archived":
			next = !n.IsArchived
			n.IsArchived = next
		}
		n.UpdatedAt = time.Now().UTC()

		if err := tx.Model(&Note{}).Where("id = ?", n.ID).
			Updates(map[string]any{column: next, "updated_at": n.UpdatedAt}).Error; err != nil {
			return err
		}

		return logEvent(tx, actor, &n.ID, n.Title, ActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Service) GetNote(ctx context.Context, ownerID, noteID uint64) (*Note, error) {
	var n Note
	if err := findOwnedNote(s.DB.WithContext(ctx), ownerID, noteID, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

type ListNotesInput struct {
	Archived *bool
	TagID    uint64
	Q        string
}

// ListNotes returns the owner's notes, pinned first then newest.
func (s *Service) ListNotes(ctx context.Context, ownerID uint64, in ListNotesInput) ([]Note, error) {
	q := s.DB.WithContext(ctx).Model(&Note{}).Where("owner_id = ?", ownerID)

	if in.Archived != nil {
		q = q.Where("is_archived = ?", *in.Archived)
	}
	if in.TagID != 0 {
		q = q.Where("id IN (?)", s.DB.Model(&NoteTag{}).Select("note_id").Where("tag_id = ?", in.TagID))
	}
	if t := strings.TrimSpace(in.Q); t != "" {
		like := "%" + t + "%"
		q = q.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var notes []Note
	if err := q.Order("is_pinned desc, created_at desc").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// NoteTagNames returns the names of the tags currently associated with a note.
func (s *Service) NoteTagNames(ctx context.Context, noteID uint64) ([]string, error) {
	return tagNamesFor(s.DB.WithContext(ctx), noteID)
}

func findOwnedNote(tx *gorm.DB, ownerID, noteID uint64, dst *Note) error {
	err := tx.Where("id = ? AND owner_id = ?", noteID, ownerID).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// checkTagOwnership fails when any requested tag id does not belong to the
// owner; associating another user's tags through the write path is rejected.
func checkTagOwnership(tx *gorm.DB, ownerID uint64, tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&Tag{}).
		Where("owner_id = ? AND id IN ?", ownerID, tagIDs).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return fmt.Errorf("%w: unknown tag", ErrValidation)
	}
	return nil
}

func setTagAssociations(tx *gorm.DB, noteID uint64, tagIDs []uint64) error {
	for _, id := range tagIDs {
		if err := tx.Create(&NoteTag{NoteID: noteID, TagID: id}).Error; err != nil {
			return err
		}
	}
	return nil
}

func tagNamesFor(tx *gorm.DB, noteID uint64) ([]string, error) {
	var names []string
	err := tx.Model(&Tag{}).
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", noteID).
		Order("tags.name asc").
		Pluck("tags.name", &names).Error
	return names, err
}
