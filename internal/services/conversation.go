package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/pkg/errors"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// LivePusher delivers an event to a connected user. Implemented by
// realtime.Registry.
type LivePusher interface {
	Push(userID string, event realtime.Event) bool
}

// Contact is a counterpart the user may message.
type Contact struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	// Since is when the mentorship was accepted.
	Since time.Time `json:"since"`
}

type ConversationPage struct {
	Messages    []models.Message `json:"data"`
	Count       int              `json:"count"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	MarkedRead  int64            `json:"-"`
}

type ConversationService struct {
	store MessageStore
	gate  RelationshipGate
	live  LivePusher
	now   func() time.Time
}

func NewConversationService(store MessageStore, gate RelationshipGate, live LivePusher) *ConversationService {
	return &ConversationService{
		store: store,
		gate:  gate,
		live:  live,
		now:   time.Now,
	}
}

// Gate exposes the relationship check so transports can reject a send
// before doing expensive work such as storing an attachment.
func (s *ConversationService) Gate() RelationshipGate {
	return s.gate
}

// Send persists a message from sender to receiverID and tries to push it
// live. The delivered flag is informational; a failed push never fails
// the send.
func (s *ConversationService) Send(ctx context.Context, sender models.Participant, receiverID, content, fileRef string) (*models.Message, bool, error) {
	if sender.IsZero() {
		return nil, false, errors.ErrForbidden
	}
	if content == "" && fileRef == "" {
		return nil, false, errors.BadRequest("Message must contain either text or a file")
	}
	if receiverID == "" {
		return nil, false, errors.BadRequest("receiverId is required")
	}

	if _, err := s.gate.Authorize(ctx, sender.ID(), receiverID); err != nil {
		return nil, false, err
	}

	receiver := sender.Counterpart(receiverID)
	msg := &models.Message{
		SenderID:     sender.ID(),
		SenderKind:   sender.Role(),
		ReceiverID:   receiver.ID(),
		ReceiverKind: receiver.Role(),
		Content:      content,
		IsRead:       false,
		Timestamp:    s.now(),
	}
	if fileRef != "" {
		msg.FileURL = &fileRef
	}

	if err := s.store.Create(ctx, msg); err != nil {
		return nil, false, fmt.Errorf("persist message: %w", err)
	}

	delivered := false
	if s.live != nil {
		delivered = s.live.Push(receiverID, realtime.Event{Type: realtime.EventMessage, Data: msg})
	}

	logger.Debug().
		Str("message_id", msg.ID).
		Str("sender", sender.String()).
		Str("receiver", receiver.String()).
		Bool("delivered", delivered).
		Msg("Message sent")

	return msg, delivered, nil
}

// ListContacts returns the counterparts user has an accepted mentorship with.
func (s *ConversationService) ListContacts(ctx context.Context, user models.Participant) ([]Contact, error) {
	requests, err := s.gate.Contacts(ctx, user)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(requests))
	contacts := make([]Contact, 0, len(requests))
	for _, r := range requests {
		var c Contact
		if user.Role() == models.RoleStudent {
			c = Contact{ID: r.MentorID, Name: r.Mentor.FullName(), Email: r.Mentor.Email, Role: models.RoleAdviser}
		} else {
			c = Contact{ID: r.StudentID, Name: r.Student.FullName(), Email: r.Student.Email, Role: models.RoleStudent}
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		c.Name = strings.TrimSpace(c.Name)
		c.Since = r.UpdatedAt
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// GetConversation returns one page of the thread between userID and
// partnerID, newest first, and marks the partner's unread messages to
// userID as read.
func (s *ConversationService) GetConversation(ctx context.Context, userID, partnerID string, page, pageSize int) (*ConversationPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if _, err := s.gate.Authorize(ctx, userID, partnerID); err != nil {
		return nil, err
	}

	messages, total, err := s.store.ListBetween(ctx, userID, partnerID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	marked, err := s.store.MarkRead(ctx, userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}

	return &ConversationPage{
		Messages:    messages,
		Count:       len(messages),
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
		CurrentPage: page,
		MarkedRead:  marked,
	}, nil
}
