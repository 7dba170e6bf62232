package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectNotStarted  ProjectStatus = "Not Started"
	ProjectPlanning    ProjectStatus = "Planning"
	ProjectInProgress  ProjectStatus = "In Progress"
	ProjectFinalStages ProjectStatus = "Final Stages"
	ProjectCompleted   ProjectStatus = "Completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectNotStarted, ProjectPlanning, ProjectInProgress, ProjectFinalStages, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          string         `gorm:"primaryKey;type:text" json:"_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      ProjectStatus  `gorm:"type:varchar(20);default:'Not Started'" json:"status"`
	StartDate   time.Time      `gorm:"not null" json:"startDate"`
	Deadline    time.Time      `gorm:"not null" json:"deadline"`
	TechStack   pq.StringArray `gorm:"type:text[]" json:"techStack"`
	Objectives  pq.StringArray `gorm:"type:text[]" json:"objectives"`
	StudentID   string         `gorm:"index;type:text;not null" json:"studentId"`
	MentorID    *string        `gorm:"type:text" json:"mentorId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = ProjectNotStarted
	}
	return
}
