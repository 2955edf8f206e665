package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quill/internal/auth"

	"gorm.io/gorm"
)

type SendResult struct {
	Copy      *Note
	Sender    Actor
	Recipient auth.User
}

// SendNote duplicates an owned note for another user. The copy is fully
// independent: owner becomes the recipient, pinned/archived reset to false,
// and later mutations of the source never touch it. Tag associations are
// copied by reference even when the recipient does not own the tags (tag
// ownership and note-tag association ownership are decoupled).
//
// The whole sequence — copy, associations, send log, events — commits in one
// transaction, so a failed send leaves nothing behind.
func (s *Service) SendNote(ctx context.Context, ownerID, noteID uint64, recipientUsername string, actorOverride *Actor) (*SendResult, error) {
	recipientUsername = strings.TrimSpace(recipientUsername)
	if recipientUsername == "" {
		return nil, fmt.Errorf("%w: recipient username required", ErrValidation)
	}

	actor := resolveActor(ctx, actorOverride)
	var res SendResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src Note
		if err := findOwnedNote(tx, ownerID, noteID, &src); err != nil {
			return err
		}

		var recipient auth.User
		err := tx.Where("username = ?", recipientUsername).First(&recipient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		res.Recipient = recipient

		copyNote := Note{
			OwnerID: recipient.ID,
			Title:   src.Title,
			Content: src.Content,
			// a sent copy always starts unpinned and unarchived
		}
		if err := tx.Create(&copyNote).Error; err != nil {
			return err
		}
		res.Copy = &copyNote

		var tagIDs []uint64
		if err := tx.Model(&NoteTag{}).Where("note_id = ?", src.ID).
			Pluck("tag_id", &tagIDs).Error; err != nil {
			return err
		}
		if err := setTagAssociations(tx, copyNote.ID, tagIDs); err != nil {
			return err
		}

		srcID := src.ID
		send := NoteSend{
			OriginalNoteID: &srcID,
			SenderID:       ownerID,
			RecipientID:    recipient.ID,
			CreatedAt:      time.Now().UTC(),
		}
		if err := tx.Create(&send).Error; err != nil {
			return err
		}

		if actor != nil {
			res.Sender = *actor
		}

		// The send itself, against the source note.
		if err := logEvent(tx, actor, &srcID, src.Title, ActionSend); err != nil {
			return err
		}
		// The copy's own creation, attributed to the sender: analytics keep
		// "I sent N notes" distinct from the notes created by sending.
		return logEvent(tx, actor, &copyNote.ID, copyNote.Title, ActionCreate)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
