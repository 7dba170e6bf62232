package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	// StudentNumber is the university-issued ID, distinct from the primary key.
	StudentNumber string    `gorm:"column:student_number;uniqueIndex;not null" json:"studentId"`
	Program       string    `gorm:"not null" json:"program"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
