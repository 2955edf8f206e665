package note

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	defaultVersionPageSize = 20
	maxVersionPageSize     = 100
)

// snapshot inserts an immutable copy of the note's current title, content and
// tag names. Called before a content-changing update or restore commits, and
// directly for manual snapshots.
func snapshot(tx *gorm.DB, n *Note, actor *Actor) error {
	v := NoteVersion{
		NoteID:    n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: time.Now().UTC(),
	}
	names, err := tagNamesFor(tx, n.ID)
	if err != nil {
		return err
	}
	v.TagNames = names
	if actor != nil {
		id := actor.ID
		v.UpdatedByID = &id
	}
	return tx.Create(&v).Error
}

// CreateSnapshot captures the note's current state on demand.
func (s *Service) CreateSnapshot(ctx context.Context, ownerID, noteID uint64, actorOverride *Actor) (*NoteVersion, error) {
	actor := resolveActor(ctx, actorOverride)
	var v NoteVersion

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Note
		if err := findOwnedNote(tx, ownerID, noteID, &n); err != nil {
			return err
		}
		if err := snapshot(tx, &n, actor); err != nil {
			return err
		}
		// read back the row just written (newest for this note)
		return tx.Where("note_id = ?", n.ID).Order("id desc").First(&v).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVersions returns one page of a note's history, newest first.
// pageSize is clamped to [1,100]; page floors at 1.
func (s *Service) ListVersions(ctx context.Context, ownerID, noteID uint64, page, pageSize int) ([]NoteVersion, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultVersionPageSize
	}
	if pageSize > maxVersionPageSize {
		pageSize = maxVersionPageSize
	}

	var n Note
	if err := findOwnedNote(s.DB.WithContext(ctx), ownerID, noteID, &n); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&NoteVersion{}).
		Where("note_id = ?", noteID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var versions []NoteVersion
	if err := s.DB.WithContext(ctx).Where("note_id = ?", noteID).
		Order("created_at desc, id desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&versions).Error; err != nil {
		return nil, 0, err
	}
	return versions, total, nil
}

// Restore rewinds a note's title and content to those of one of its versions.
// The pre-restore state is snapshotted first, so restoring never loses
// history: even restoring to content the note already has adds a version row.
func (s *Service) Restore(ctx context.Context, ownerID, noteID, versionID uint64, actorOverride *Actor) (*Note, error) {
	actor := resolveActor(ctx, actorOverride)
	var n Note

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedNote(tx, ownerID, noteID, &n); err != nil {
			return err
		}

		var v NoteVersion
		err := tx.Where("id = ? AND note_id = ?", versionID, noteID).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := snapshot(tx, &n, actor); err != nil {
			return err
		}

		n.Title = v.Title
		n.Content = v.Content
		n.UpdatedAt = time.Now().UTC()
		if err := tx.Model(&Note{}).Where("id = ?", n.ID).
			Updates(map[string]any{
				"title":      n.Title,
				"content":    n.Content,
				"updated_at": n.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		return logEvent(tx, actor, &n.ID, n.Title, ActionUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteAllVersions wipes a note's entire history. confirm must be true
// (wired to an explicit ?all=true request flag) so a single unqualified call
// cannot destroy the history.
func (s *Service) DeleteAllVersions(ctx context.Context, ownerID, noteID uint64, confirm bool) (int64, error) {
	if !confirm {
		return 0, ErrConfirmationRequired
	}

	var deleted int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Note
		if err := findOwnedNote(tx, ownerID, noteID, &n); err != nil {
			return err
		}
		res := tx.Where("note_id = ?", noteID).Delete(&NoteVersion{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
