package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Admin struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `json:"-"`
	Role      Role       `gorm:"type:varchar(16);default:'admin'" json:"role"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	return
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// AdviserApplication is a request to join as an adviser, reviewed by an admin.
type AdviserApplication struct {
	ID                string            `gorm:"primaryKey;type:text" json:"_id"`
	FullName          string            `gorm:"not null" json:"fullName"`
	Email             string            `gorm:"index;not null" json:"email"`
	Phone             string            `gorm:"not null" json:"phone"`
	JobTitle          string            `gorm:"not null" json:"jobTitle"`
	Company           string            `gorm:"not null" json:"company"`
	YearsOfExperience string            `gorm:"not null" json:"yearsOfExperience"`
	Expertise         string            `gorm:"not null" json:"expertise"`
	Bio               string            `gorm:"type:text;not null" json:"bio"`
	ResumePath        string            `gorm:"not null" json:"resumePath"`
	LinkedInProfile   string            `gorm:"not null" json:"linkedInProfile"`
	GithubProfile     string            `json:"githubProfile,omitempty"`
	PortfolioWebsite  string            `json:"portfolioWebsite,omitempty"`
	Status            ApplicationStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	AdminNote         string            `gorm:"type:text" json:"adminNote,omitempty"`
	AppliedAt         time.Time         `json:"appliedAt"`
	ReviewedAt        *time.Time        `json:"reviewedAt,omitempty"`
	ReviewedBy        *string           `gorm:"type:text" json:"reviewedBy,omitempty"`
	AdviserID         *string           `gorm:"type:text" json:"adviserId,omitempty"`
}

func (a *AdviserApplication) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	return
}
