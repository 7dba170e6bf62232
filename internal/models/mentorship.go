package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "pending"
	MentorshipAccepted MentorshipStatus = "accepted"
	MentorshipRejected MentorshipStatus = "rejected"
)

// MentorshipRequest pairs a student with an adviser. Only accepted
// requests authorize messaging between the pair.
type MentorshipRequest struct {
	ID                 string           `gorm:"primaryKey;type:text" json:"_id"`
	StudentID          string           `gorm:"index;type:text;not null" json:"studentId"`
	MentorID           string           `gorm:"index;type:text;not null" json:"mentorId"`
	ProjectTechStack   pq.StringArray   `gorm:"type:text[]" json:"projectTechStack"`
	Note               string           `gorm:"type:text;default:''" json:"note"`
	Status             MentorshipStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	MatchingPercentage int              `json:"matchingPercentage"`
	RejectionNote      string           `gorm:"type:text;default:''" json:"rejectionNote"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`

	Student Student `gorm:"foreignKey:StudentID;references:ID" json:"-"`
	Mentor  Adviser `gorm:"foreignKey:MentorID;references:ID" json:"-"`
}

func (r *MentorshipRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = MentorshipPending
	}
	return
}
