package services

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/errors"
)

// RelationshipGate decides whether two users may exchange messages.
type RelationshipGate interface {
	// Authorize returns the accepted mentorship linking the pair, in either
	// direction, or errors.ErrNotAuthorized.
	Authorize(ctx context.Context, requesterID, counterpartID string) (*models.MentorshipRequest, error)
	// Contacts returns the accepted mentorships of user, with the
	// counterpart preloaded.
	Contacts(ctx context.Context, user models.Participant) ([]models.MentorshipRequest, error)
}

type MentorshipGate struct {
	db *gorm.DB
}

func NewMentorshipGate(db *gorm.DB) *MentorshipGate {
	return &MentorshipGate{db: db}
}

func (g *MentorshipGate) Authorize(ctx context.Context, requesterID, counterpartID string) (*models.MentorshipRequest, error) {
	if requesterID == "" || counterpartID == "" || requesterID == counterpartID {
		return nil, errors.ErrNotAuthorized
	}

	var req models.MentorshipRequest
	err := g.db.WithContext(ctx).
		Where("status = ?", models.MentorshipAccepted).
		Where("((student_id = ? AND mentor_id = ?) OR (student_id = ? AND mentor_id = ?))",
			requesterID, counterpartID, counterpartID, requesterID).
		First(&req).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotAuthorized
		}
		return nil, err
	}
	return &req, nil
}

func (g *MentorshipGate) Contacts(ctx context.Context, user models.Participant) ([]models.MentorshipRequest, error) {
	query := g.db.WithContext(ctx).Where("status = ?", models.MentorshipAccepted)
	switch user.Role() {
	case models.RoleStudent:
		query = query.Where("student_id = ?", user.ID()).Preload("Mentor")
	case models.RoleAdviser:
		query = query.Where("mentor_id = ?", user.ID()).Preload("Student")
	default:
		return nil, errors.ErrForbidden
	}

	requests := []models.MentorshipRequest{}
	if err := query.Order("updated_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
