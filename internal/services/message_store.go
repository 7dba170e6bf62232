package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xyleee/api-devguidance/internal/models"
)

// MessageStore persists direct messages.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListBetween returns one page of the thread between a and b, newest
	// first, and the total number of messages in the thread.
	ListBetween(ctx context.Context, a, b string, page, pageSize int) ([]models.Message, int64, error)
	// MarkRead flips unread messages sent by senderID to receiverID.
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)
}

type GormMessageStore struct {
	db *gorm.DB
}

func NewGormMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{db: db}
}

func (s *GormMessageStore) Create(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *GormMessageStore) thread(ctx context.Context, a, b string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Message{}).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))", a, b, b, a)
}

func (s *GormMessageStore) ListBetween(ctx context.Context, a, b string, page, pageSize int) ([]models.Message, int64, error) {
	var total int64
	if err := s.thread(ctx, a, b).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	messages := []models.Message{}
	err := s.thread(ctx, a, b).
		Order("timestamp DESC").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (s *GormMessageStore) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
