package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const maxTagNameLen = 16

// CreateTag adds a tag for the owner. Duplicate names are rejected
// case-insensitively here, while the storage unique index on (owner_id, name)
// is case-sensitive. The mismatch is intentional and preserved: tightening
// the storage constraint is a product decision, not a code cleanup.
func (s *Service) CreateTag(ctx context.Context, ownerID uint64, name string) (*Tag, error) {
	name, err := validTagName(name)
	if err != nil {
		return nil, err
	}

	var t Tag
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTagNameFree(tx, ownerID, name, 0); err != nil {
			return err
		}
		t = Tag{OwnerID: ownerID, Name: name}
		return tx.Create(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RenameTag changes a tag's name under the same duplicate rules as CreateTag.
func (s *Service) RenameTag(ctx context.Context, ownerID, tagID uint64, name string) (*Tag, error) {
	name, err := validTagName(name)
	if err != nil {
		return nil, err
	}

	var t Tag
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedTag(tx, ownerID, tagID, &t); err != nil {
			return err
		}
		if err := checkTagNameFree(tx, ownerID, name, t.ID); err != nil {
			return err
		}
		t.Name = name
		return tx.Model(&Tag{}).Where("id = ?", t.ID).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTag removes the tag and its note associations. Notes themselves are
// never touched.
func (s *Service) DeleteTag(ctx context.Context, ownerID, tagID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Tag
		if err := findOwnedTag(tx, ownerID, tagID, &t); err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", t.ID).Delete(&NoteTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Tag{}, t.ID).Error
	})
}

func (s *Service) ListTags(ctx context.Context, ownerID uint64) ([]Tag, error) {
	var tags []Tag
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func validTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: tag name required", ErrValidation)
	}
	if len(name) > maxTagNameLen {
		return "", fmt.Errorf("%w: tag name too long", ErrValidation)
	}
	return name, nil
}

func findOwnedTag(tx *gorm.DB, ownerID, tagID uint64, dst *Tag) error {
	err := tx.Where("id = ? AND owner_id = ?", tagID, ownerID).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func checkTagNameFree(tx *gorm.DB, ownerID uint64, name string, excludeID uint64) error {
	q := tx.Model(&Tag{}).Where("owner_id = ? AND lower(name) = lower(?)", ownerID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: duplicate tag name", ErrValidation)
	}
	return nil
}
