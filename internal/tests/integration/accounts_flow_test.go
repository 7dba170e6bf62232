package integration

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xyleee/api-devguidance/internal/services"
)

func TestAccounts_StudentRegisterLogin(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{
		"firstName": "Nora",
		"lastName":  "Lane",
		"email":     "Nora@Uni.test",
		"password":  testPassword,
		"studentId": "S-900",
		"program":   "Computer Science",
	}
	w := env.request("POST", "/api/students/register", payload, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "nora@uni.test", resp["student"].(map[string]interface{})["email"])

	w = env.request("POST", "/api/students/register", payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request("POST", "/api/students/login", map[string]string{"email": "nora@uni.test", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request("POST", "/api/students/login", map[string]string{"email": "nora@uni.test", "password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	// Student tokens do not open adviser routes
	w = env.request("GET", "/api/advisers/profile", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccounts_RegisterValidation(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request("POST", "/api/students/register", map[string]string{"email": "not-an-email"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Validation failed", resp["error"])
	assert.NotEmpty(t, resp["errors"])
}

func TestAccounts_AdviserProfileLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request("POST", "/api/advisers/register", map[string]string{
		"firstName":      "Omar",
		"lastName":       "Pike",
		"email":          "omar@uni.test",
		"password":       testPassword,
		"employeeId":     "E-77",
		"specialization": "Distributed Systems",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	token := resp["token"].(string)
	adviserID := resp["adviser"].(map[string]interface{})["id"].(string)

	w = env.request("PUT", "/api/advisers/profile", map[string]interface{}{
		"title":       "Principal Engineer",
		"phone":       "+1 555 0100",
		"expertise":   []string{"Go", "Kafka"},
		"education":   []map[string]string{{"degree": "MSc", "institution": "TU", "year": "2012"}},
		"socialLinks": map[string]string{"github": "https://github.com/omar"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request("PUT", "/api/advisers/profile", map[string]interface{}{"availability": "Sleeping"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request("PUT", "/api/advisers/profile/mentoring", map[string]int{"projectsCompleted": 4}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, decode(t, w)["data"].(map[string]interface{})["projectsCompleted"])

	w = env.request("GET", "/api/advisers/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	private := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Principal Engineer", private["title"])
	assert.Equal(t, "+1 555 0100", private["phone"])
	assert.Equal(t, "https://github.com/omar", private["socialLinks"].(map[string]interface{})["github"])

	// Public view needs no token and hides contact details
	w = env.request("GET", "/api/advisers/profile/"+adviserID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	public := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Go", "Kafka"}, public["expertise"])
	assert.NotContains(t, public, "phone")
	assert.NotContains(t, public, "email")

	w = env.request("GET", "/api/advisers/profile/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uploadForm(t *testing.T, field, filename string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestAccounts_ProfileImageUpload(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createAdviser(t, "pia")

	body, ct := uploadForm(t, "profileImage", "me.png", 128)
	req := httptest.NewRequest("POST", "/api/advisers/profile/upload-image", body)
	req.Header.Set("Content-Type", ct)
	w := env.do(req, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Regexp(t, `^https://files\.test/uploads/profiles/.+\.png$`, decode(t, w)["profileImage"])

	body, ct = uploadForm(t, "profileImage", "me.pdf", 128)
	req = httptest.NewRequest("POST", "/api/advisers/profile/upload-image", body)
	req.Header.Set("Content-Type", ct)
	w = env.do(req, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Not an image! Please upload only images.", decode(t, w)["error"])
}

func TestAccounts_ResumeUploadLimits(t *testing.T) {
	env := setupTestEnv(t)

	body, ct := uploadForm(t, "file", "cv.docx", 64)
	req := httptest.NewRequest("POST", "/api/mentors/upload-resume", body)
	req.Header.Set("Content-Type", ct)
	w := env.do(req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Regexp(t, `uploads/resumes/.+\.docx$`, decode(t, w)["filePath"])

	body, ct = uploadForm(t, "file", "big.pdf", 5<<20+1)
	req = httptest.NewRequest("POST", "/api/mentors/upload-resume", body)
	req.Header.Set("Content-Type", ct)
	w = env.do(req, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{services.FolderResumes}, env.uploader.uploads())
}

func TestAccounts_Projects(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createStudent(t, "quin")
	_, otherToken := env.createStudent(t, "rex")

	w := env.request("GET", "/api/projects/student", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request("POST", "/api/projects", map[string]interface{}{
		"title":       "Thesis",
		"description": "Event sourcing study",
		"startDate":   "2025-01-10T00:00:00Z",
		"deadline":    "2024-12-01T00:00:00Z",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request("POST", "/api/projects", map[string]interface{}{
		"title":       "Thesis",
		"description": "Event sourcing study",
		"startDate":   "2025-01-10T00:00:00Z",
		"deadline":    "2025-06-01T00:00:00Z",
		"techStack":   []string{"Go", "Kafka"},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Not Started", project["status"])
	id := project["_id"].(string)

	w = env.request("PUT", "/api/projects/"+id, map[string]interface{}{
		"title":       "Thesis v2",
		"description": "Event sourcing study",
		"status":      "In Progress",
		"startDate":   "2025-01-10T00:00:00Z",
		"deadline":    "2025-06-01T00:00:00Z",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "In Progress", decode(t, w)["data"].(map[string]interface{})["status"])

	w = env.request("GET", "/api/projects/student", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	// Projects are private to their owner
	w = env.request("GET", "/api/projects/"+id, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccounts_HealthReportsLiveConnections(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request("GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 0, resp["liveConnections"])
	assert.Equal(t, "not configured", resp["checks"].(map[string]interface{})["redis"])
}

func TestAccounts_LogoutWithoutRedis(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createStudent(t, "sal")

	w := env.request("POST", "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", decode(t, w)["message"])

	w = env.request("POST", "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
