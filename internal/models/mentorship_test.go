package models

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func TestMentorshipRequestBelongsToStudentAndMentor(t *testing.T) {
	s, err := schema.Parse(&MentorshipRequest{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for name, fk := range map[string]string{"Student": "student_id", "Mentor": "mentor_id"} {
		rel := s.Relationships.Relations[name]
		require.NotNil(t, rel, name)
		assert.Equal(t, schema.BelongsTo, rel.Type, name)
		require.Len(t, rel.References, 1)
		assert.Equal(t, fk, rel.References[0].ForeignKey.DBName)
		assert.Equal(t, "id", rel.References[0].PrimaryKey.DBName)
	}
}

func TestMentorshipForeignKeysEnforced(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))

	student := Student{FirstName: "Lin", LastName: "Wu", Email: "lin@uni.test", Password: "x", StudentNumber: "S-1", Program: "CS"}
	require.NoError(t, db.Create(&student).Error)
	adviser := Adviser{FirstName: "Max", LastName: "Ng", Email: "max@uni.test", Password: "x", EmployeeID: "E-1", Specialization: "Go"}
	require.NoError(t, db.Create(&adviser).Error)
	require.NoError(t, db.Create(&MentorshipRequest{StudentID: student.ID, MentorID: adviser.ID}).Error)

	var loaded MentorshipRequest
	require.NoError(t, db.Preload("Student").Preload("Mentor").First(&loaded).Error)
	assert.Equal(t, "Lin Wu", loaded.Student.FullName())
	assert.Equal(t, "S-1", loaded.Student.StudentNumber)
	assert.Equal(t, adviser.Email, loaded.Mentor.Email)

	err = db.Create(&MentorshipRequest{StudentID: "missing", MentorID: adviser.ID}).Error
	assert.Error(t, err)
}
