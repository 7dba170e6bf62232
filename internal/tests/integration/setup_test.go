package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/internal/routes"
	"github.com/Xyleee/api-devguidance/internal/services"
	applog "github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

const testPassword = "secret123"

// Each env gets its own client IP so the shared per-IP rate limiters don't
// leak between tests.
var ipCounter uint32

type fakeUploader struct {
	mu      sync.Mutex
	folders []string
}

func (f *fakeUploader) Upload(_ context.Context, folder, filename string, body io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.folders = append(f.folders, folder)
	f.mu.Unlock()
	return "https://files.test/" + services.ObjectKey(folder, filename), nil
}

func (f *fakeUploader) uploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.folders...)
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	registry *realtime.Registry
	uploader *fakeUploader
	clientIP string
}

// setupTestEnv wires the full application against an in-memory SQLite
// database. Handlers use the global database.DB, so tests in this package
// must not run in parallel.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	applog.Silence()

	config.AppConfig = &config.Config{
		Env:         "test",
		JWTSecret:   "test_secret_key_12345",
		JWTTTLHours: 1,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps SQLite from reporting lock contention
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db
	database.Redis = nil

	registry := realtime.NewRegistry(context.Background(), time.Hour)
	t.Cleanup(registry.Close)

	handlers.InitMessaging(registry, services.NewConversationService(
		services.NewGormMessageStore(db),
		services.NewMentorshipGate(db),
		registry,
	))

	uploader := &fakeUploader{}
	handlers.SetUploader(uploader)
	t.Cleanup(func() { handlers.SetUploader(nil) })

	n := atomic.AddUint32(&ipCounter, 1)
	return &testEnv{
		router:   routes.NewRouter(),
		db:       db,
		registry: registry,
		uploader: uploader,
		clientIP: fmt.Sprintf("10.0.%d.%d", n/250, n%250+1),
	}
}

func (e *testEnv) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(req, token)
}

func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Forwarded-For", e.clientIP)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func tokenFor(t *testing.T, id string, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateToken(id, string(role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) createStudent(t *testing.T, first string) (models.Student, string) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	suffix := uuid.New().String()[:8]
	s := models.Student{
		FirstName: first, LastName: "Student", Email: first + "-" + suffix + "@uni.test",
		Password: hash, StudentNumber: "S-" + suffix, Program: "Computer Science",
	}
	require.NoError(t, e.db.Create(&s).Error)
	return s, tokenFor(t, s.ID, models.RoleStudent)
}

func (e *testEnv) createAdviser(t *testing.T, first string, expertise ...string) (models.Adviser, string) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	suffix := uuid.New().String()[:8]
	a := models.Adviser{
		FirstName: first, LastName: "Mentor", Email: first + "-" + suffix + "@uni.test",
		Password: hash, EmployeeID: "E-" + suffix, Specialization: "Backend",
	}
	require.NoError(t, e.db.Create(&a).Error)
	require.NoError(t, e.db.Create(&models.AdviserProfile{AdviserID: a.ID, Expertise: expertise}).Error)
	return a, tokenFor(t, a.ID, models.RoleAdviser)
}

func (e *testEnv) createAdmin(t *testing.T) (models.Admin, string) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	a := models.Admin{Name: "Root", Email: "root-" + uuid.New().String()[:8] + "@uni.test", Password: hash}
	require.NoError(t, e.db.Create(&a).Error)
	return a, tokenFor(t, a.ID, models.RoleAdmin)
}

func (e *testEnv) pairWith(t *testing.T, student models.Student, adviser models.Adviser, status models.MentorshipStatus) models.MentorshipRequest {
	t.Helper()
	req := models.MentorshipRequest{
		StudentID: student.ID,
		MentorID:  adviser.ID,
		Status:    status,
	}
	require.NoError(t, e.db.Create(&req).Error)
	return req
}
