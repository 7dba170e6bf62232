package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/pkg/errors"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB(t *testing.T) {
	t.Helper()
	logger.Silence()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	database.DB = db
}

func testContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, nil)
	return c, w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRespondError(t *testing.T) {
	c, w := testContext("GET", "/x")
	respondError(c, errors.ErrNotAuthorized)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.ErrNotAuthorized.Message, body(t, w)["error"])

	c, w = testContext("GET", "/x")
	respondError(c, fmt.Errorf("wrapped: %w", errors.NotFound("Project not found")))
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = testContext("GET", "/x")
	respondError(c, fmt.Errorf("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body(t, w)["error"])
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"page=3", 3},
		{"page=0", 50},
		{"page=-2", 50},
		{"page=abc", 50},
	}
	for _, tt := range tests {
		c, _ := testContext("GET", "/x?"+tt.query)
		assert.Equal(t, tt.want, queryInt(c, "page", 50), tt.query)
	}
}

func TestStreamEvents_RejectsForeignChannel(t *testing.T) {
	c, w := testContext("GET", "/api/messages/events/someone-else")
	c.Params = gin.Params{{Key: "userId", Value: "someone-else"}}
	c.Set("userId", "me")

	StreamEvents(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to access this stream", body(t, w)["error"])
}

func TestNotifyWithoutRegistry(t *testing.T) {
	prev := liveRegistry
	liveRegistry = nil
	defer func() { liveRegistry = prev }()

	assert.False(t, notify("anyone", realtime.Event{Type: realtime.EventMessage}))
}

func TestUploadRuleCheck(t *testing.T) {
	tests := []struct {
		name string
		rule uploadRule
		file string
		size int64
		ok   bool
	}{
		{"resume pdf", resumeRule, "cv.PDF", 1024, true},
		{"resume image", resumeRule, "cv.png", 1024, false},
		{"image", profileImageRule, "me.webp", 1024, true},
		{"attachment zip", messageAttachmentRule, "src.zip", 1024, true},
		{"attachment exe", messageAttachmentRule, "setup.exe", 1024, false},
		{"exactly 5MB", messageAttachmentRule, "a.txt", maxUploadSize, true},
		{"over 5MB", messageAttachmentRule, "a.txt", maxUploadSize + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.check(&multipart.FileHeader{Filename: tt.file, Size: tt.size})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errors.ErrValidation)
			}
		})
	}
}

func TestStoreUploadWithoutBackend(t *testing.T) {
	prev := uploader
	uploader = nil
	defer func() { uploader = prev }()

	c, _ := testContext("POST", "/x")
	_, err := storeUpload(c, &multipart.FileHeader{Filename: "a.pdf", Size: 10}, resumeRule)
	assert.Equal(t, http.StatusInternalServerError, errors.StatusOf(err))
}

func TestSplitHelpers(t *testing.T) {
	first, last := splitName("  Ada  King Lovelace ")
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "King Lovelace", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)

	assert.Equal(t, []string{"Go", "SQL"}, splitList(" Go,, SQL ,"))
	assert.Equal(t, []string{}, splitList(""))
}

func TestProjectInputValidate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	in := ProjectInput{StartDate: start, Deadline: start}
	assert.Empty(t, in.validate())

	in.Deadline = start.Add(-time.Hour)
	assert.Contains(t, in.validate(), "deadline")

	in = ProjectInput{StartDate: start, Deadline: start.AddDate(0, 1, 0), Status: "Abandoned"}
	assert.Contains(t, in.validate(), "status")
}

func TestUpdateProfileInputApply(t *testing.T) {
	title := " Lead "
	busy := models.AvailabilityBusy
	profile := &models.AdviserProfile{Title: "Old", Company: "Keep", Expertise: []string{"Go"}}

	in := UpdateProfileInput{Title: &title, Availability: &busy, Certifications: []string{"CKA"}}
	in.apply(profile)

	assert.Equal(t, "Lead", profile.Title)
	assert.Equal(t, "Keep", profile.Company)
	assert.Equal(t, []string{"Go"}, []string(profile.Expertise))
	assert.Equal(t, []string{"CKA"}, []string(profile.Certifications))
	assert.Equal(t, models.AvailabilityBusy, profile.Availability)
}

func TestHasExpertise(t *testing.T) {
	assert.True(t, hasExpertise([]string{"PostgreSQL"}, "postgres"))
	assert.False(t, hasExpertise([]string{"MySQL"}, "postgres"))
	assert.False(t, hasExpertise(nil, "go"))
}

func TestGetStudentProjects_Empty(t *testing.T) {
	SetupTestDB(t)
	c, w := testContext("GET", "/api/projects/student")
	c.Set("userId", "nobody")

	GetStudentProjects(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No project found for this student", body(t, w)["error"])
}

func TestGetAdviserProfile_CreatesMissingProfile(t *testing.T) {
	SetupTestDB(t)
	adviser := models.Adviser{
		FirstName: "Ola", LastName: "Nord", Email: "ola@uni.test",
		Password: "x", EmployeeID: "E-1", Specialization: "Data",
	}
	require.NoError(t, database.DB.Create(&adviser).Error)

	c, w := testContext("GET", "/api/advisers/profile")
	c.Set("userId", adviser.ID)
	GetAdviserProfile(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := body(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Available", data["availability"])
	assert.Equal(t, models.DefaultProfileImage, data["profileImage"])
	assert.Equal(t, "ola@uni.test", data["email"])

	var count int64
	database.DB.Model(&models.AdviserProfile{}).Where("adviser_id = ?", adviser.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetMentorRequests_ListsOwnOnly(t *testing.T) {
	SetupTestDB(t)
	student := models.Student{FirstName: "Ivy", LastName: "Park", Email: "ivy@uni.test", Password: "x", StudentNumber: "S-1", Program: "CS"}
	require.NoError(t, database.DB.Create(&student).Error)
	mine := models.Adviser{FirstName: "Ada", LastName: "A", Email: "ada@uni.test", Password: "x", EmployeeID: "E-A", Specialization: "Go"}
	other := models.Adviser{FirstName: "Bo", LastName: "B", Email: "bo@uni.test", Password: "x", EmployeeID: "E-B", Specialization: "Go"}
	require.NoError(t, database.DB.Create(&mine).Error)
	require.NoError(t, database.DB.Create(&other).Error)
	require.NoError(t, database.DB.Create(&models.MentorshipRequest{StudentID: student.ID, MentorID: mine.ID}).Error)
	require.NoError(t, database.DB.Create(&models.MentorshipRequest{StudentID: student.ID, MentorID: other.ID}).Error)

	c, w := testContext("GET", "/api/mentors/requests")
	c.Set("userId", mine.ID)
	GetMentorRequests(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := body(t, w)
	assert.EqualValues(t, 1, resp["count"])
	entry := resp["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Ivy Park", entry["student"].(map[string]interface{})["name"])
}

func TestRespondToRequest_DatabaseFailureIsNotNotFound(t *testing.T) {
	SetupTestDB(t)
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	c, w := testContext("PUT", "/api/mentors/requests/r1")
	c.Request = httptest.NewRequest("PUT", "/api/mentors/requests/r1", strings.NewReader(`{"status":"accepted"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "requestId", Value: "r1"}}
	c.Set("userId", "mentor-1")

	RespondToRequest(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
