package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Adviser struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	FirstName      string    `gorm:"not null" json:"firstName"`
	LastName       string    `gorm:"not null" json:"lastName"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `json:"-"`
	EmployeeID     string    `gorm:"uniqueIndex;not null" json:"employeeId"`
	Specialization string    `gorm:"not null" json:"specialization"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (a *Adviser) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (a *Adviser) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityBusy      Availability = "Busy"
	AvailabilityAway      Availability = "Away"
)

const DefaultProfileImage = "default-profile.png"

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

type Experience struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

type TechSkill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type SocialLinks struct {
	Github   string `json:"github,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

type MentoringSummary struct {
	StudentsCount     int `json:"studentsCount"`
	ProjectsCompleted int `json:"projectsCompleted"`
}

// AdviserProfile holds the public, editable part of an adviser account.
// Nested sections are stored as JSON columns.
type AdviserProfile struct {
	ID             string                          `gorm:"primaryKey;type:text" json:"_id"`
	AdviserID      string                          `gorm:"uniqueIndex;type:text;not null" json:"adviser"`
	Title          string                          `json:"title"`
	Company        string                          `json:"company"`
	Location       string                          `json:"location"`
	Phone          string                          `json:"phone"`
	Bio            string                          `gorm:"type:text" json:"bio"`
	Expertise      datatypes.JSONSlice[string]     `json:"expertise"`
	Education      datatypes.JSONSlice[Education]  `json:"education"`
	Experience     datatypes.JSONSlice[Experience] `json:"experience"`
	Certifications datatypes.JSONSlice[string]     `json:"certifications"`
	TechStack      datatypes.JSONSlice[TechSkill]  `json:"techStack"`
	SocialLinks    datatypes.JSONType[SocialLinks] `json:"socialLinks"`

	StudentsCount     int `gorm:"default:0" json:"-"`
	ProjectsCompleted int `gorm:"default:0" json:"-"`

	Availability Availability `gorm:"type:varchar(16);default:'Available';index" json:"availability"`
	ProfileImage string       `gorm:"default:'default-profile.png'" json:"profileImage"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	Adviser Adviser `gorm:"foreignKey:AdviserID" json:"-"`
}

func (p *AdviserProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Availability == "" {
		p.Availability = AvailabilityAvailable
	}
	if p.ProfileImage == "" {
		p.ProfileImage = DefaultProfileImage
	}
	return
}

func (p *AdviserProfile) MentoringSummary() MentoringSummary {
	return MentoringSummary{StudentsCount: p.StudentsCount, ProjectsCompleted: p.ProjectsCompleted}
}
