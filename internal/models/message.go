package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one direct message between a student and an adviser.
// Only IsRead changes after creation.
type Message struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	SenderID     string    `gorm:"index;type:text;not null" json:"senderId"`
	SenderKind   Role      `gorm:"type:varchar(16);not null" json:"senderModel"`
	ReceiverID   string    `gorm:"index;type:text;not null" json:"receiverId"`
	ReceiverKind Role      `gorm:"type:varchar(16);not null" json:"receiverModel"`
	Content      string    `gorm:"type:text;not null;default:''" json:"content"`
	FileURL      *string   `gorm:"type:text" json:"fileUrl"`
	IsRead       bool      `gorm:"not null;default:false" json:"isRead"`
	Timestamp    time.Time `gorm:"index;not null" json:"timestamp"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return
}

// Sender returns the sending participant.
func (m *Message) Sender() Participant {
	p, _ := ParticipantFromRole(m.SenderKind, m.SenderID)
	return p
}

// Receiver returns the receiving participant.
func (m *Message) Receiver() Participant {
	p, _ := ParticipantFromRole(m.ReceiverKind, m.ReceiverID)
	return p
}
