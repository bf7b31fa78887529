package chat

import (
	"context"
	"log"
	"strings"

	"ebm/src/models"
	"ebm/src/types"

	"gorm.io/gorm"
)

// Store owns persisted chat messages. The database assigns ids and
// timestamps, so the stored copy is the authoritative one that gets
// broadcast back to the room, sender included.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, roomId, senderId string, role types.PartyRole, content string) (*models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	msg := &models.ChatMessage{
		RoomID:   roomId,
		SenderID: senderId,
		Role:     role,
		Content:  content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("[MessageStore] error appending to room [%s]: %s\n", roomId, err.Error())
		return nil, err
	}
	return msg, nil
}

// ListByRoom returns the full room history in insertion order. Ties on
// created_at fall back to the insertion sequence, never reordered.
func (s *Store) ListByRoom(ctx context.Context, roomId string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where(&models.ChatMessage{RoomID: roomId}).
		Order("created_at ASC, id ASC").
		Find(&messages).
		Error
	if err != nil {
		log.Printf("[MessageStore] error listing room [%s]: %s\n", roomId, err.Error())
		return nil, err
	}
	return messages, nil
}
