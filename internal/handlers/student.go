package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/internal/services"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

const mentorCacheTTL = 2 * time.Minute

type StudentRegisterInput struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	StudentNumber string `json:"studentId" binding:"required"`
	Program       string `json:"program" binding:"required"`
}

func studentJSON(s *models.Student) gin.H {
	return gin.H{
		"id":        s.ID,
		"firstName": s.FirstName,
		"lastName":  s.LastName,
		"email":     s.Email,
		"studentId": s.StudentNumber,
		"program":   s.Program,
	}
}

func RegisterStudent(c *gin.Context) {
	var input StudentRegisterInput
	if !bindJSON(c, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := database.DB.Model(&models.Student{}).
		Where("email = ? OR student_number = ?", email, input.StudentNumber).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Student already exists with this email or ID"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to hash password"})
		return
	}

	student := models.Student{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         email,
		Password:      hashed,
		StudentNumber: input.StudentNumber,
		Program:       input.Program,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("Student registration failed")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Student already exists with this email or ID"})
		return
	}

	token, ok := issueToken(c, student.ID, models.RoleStudent)
	if !ok {
		return
	}

	logger.Info().Str("user_id", student.ID).Msg("Student registered")
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "student": studentJSON(&student)})
}

func LoginStudent(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	var student models.Student
	if err := database.DB.Where("email = ?", strings.ToLower(input.Email)).First(&student).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}
	if !utils.CheckPassword(student.Password, input.Password) {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	token, ok := issueToken(c, student.ID, models.RoleStudent)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "student": studentJSON(&student)})
}

// MentorSummary is an available adviser as listed to students.
type MentorSummary struct {
	ID               string                  `json:"_id"`
	FirstName        string                  `json:"firstName"`
	LastName         string                  `json:"lastName"`
	Specialization   string                  `json:"specialization"`
	Expertise        []string                `json:"expertise"`
	Bio              string                  `json:"bio"`
	ProfileImage     string                  `json:"profileImage"`
	MentoringSummary models.MentoringSummary `json:"mentoringSummary"`
}

func mentorCacheKey(search, technology string) string {
	return "mentors:" + strings.ToLower(search) + ":" + strings.ToLower(technology)
}

func invalidateMentorCache() {
	if err := database.CacheInvalidate("mentors:*"); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate mentor cache")
	}
}

// GetAvailableMentors lists advisers whose profile is Available, optionally
// filtered by name and by a technology in their expertise.
func GetAvailableMentors(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	technology := strings.TrimSpace(c.Query("technology"))
	cacheKey := mentorCacheKey(search, technology)

	var cached []MentorSummary
	if err := database.CacheGet(cacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(cached), "data": cached})
		return
	}

	query := database.DB.Model(&models.AdviserProfile{}).
		Preload("Adviser").
		Joins("JOIN advisers ON advisers.id = adviser_profiles.adviser_id").
		Where("adviser_profiles.availability = ?", models.AvailabilityAvailable)
	if search != "" {
		pattern := utils.SanitizeSearchQuery(search)
		query = query.Where("(LOWER(advisers.first_name) LIKE ? ESCAPE '\\' OR LOWER(advisers.last_name) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var profiles []models.AdviserProfile
	if err := query.Order("advisers.first_name ASC").Find(&profiles).Error; err != nil {
		respondError(c, err)
		return
	}

	tech := strings.ToLower(technology)
	mentors := make([]MentorSummary, 0, len(profiles))
	for _, p := range profiles {
		if tech != "" && !hasExpertise(p.Expertise, tech) {
			continue
		}
		mentors = append(mentors, MentorSummary{
			ID:               p.AdviserID,
			FirstName:        p.Adviser.FirstName,
			LastName:         p.Adviser.LastName,
			Specialization:   p.Adviser.Specialization,
			Expertise:        nonNil(p.Expertise),
			Bio:              p.Bio,
			ProfileImage:     p.ProfileImage,
			MentoringSummary: p.MentoringSummary(),
		})
	}

	if err := database.CacheSet(cacheKey, mentors, mentorCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache mentor list")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(mentors), "data": mentors})
}

func hasExpertise(expertise []string, tech string) bool {
	for _, e := range expertise {
		if strings.Contains(strings.ToLower(e), tech) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type MentorshipRequestInput struct {
	MentorID         string   `json:"mentorId" binding:"required"`
	ProjectTechStack []string `json:"projectTechStack" binding:"required"`
	Note             string   `json:"note"`
}

func RequestMentorship(c *gin.Context) {
	var input MentorshipRequestInput
	if !bindJSON(c, &input) {
		return
	}
	studentID := c.GetString("userId")

	var profile models.AdviserProfile
	if err := database.DB.Where("adviser_id = ?", input.MentorID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Mentor not found"})
		return
	}
	if profile.Availability != models.AvailabilityAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Mentor is not currently available for new mentorship"})
		return
	}

	var pending int64
	if err := database.DB.Model(&models.MentorshipRequest{}).
		Where("student_id = ? AND mentor_id = ? AND status = ?", studentID, input.MentorID, models.MentorshipPending).
		Count(&pending).Error; err != nil {
		respondError(c, err)
		return
	}
	if pending > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "You already have a pending request with this mentor"})
		return
	}

	request := models.MentorshipRequest{
		StudentID:          studentID,
		MentorID:           input.MentorID,
		ProjectTechStack:   input.ProjectTechStack,
		Note:               input.Note,
		Status:             models.MentorshipPending,
		MatchingPercentage: services.CalculateMatchingPercentage(input.ProjectTechStack, profile.Expertise),
	}
	if err := database.DB.Create(&request).Error; err != nil {
		respondError(c, err)
		return
	}

	notify(request.MentorID, realtime.Event{Type: realtime.EventMentorship, Data: request})
	logger.Info().Str("request_id", request.ID).Str("student_id", studentID).Msg("Mentorship requested")

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": request})
}

func GetStudentRequests(c *gin.Context) {
	studentID := c.GetString("userId")

	var requests []models.MentorshipRequest
	if err := database.DB.Preload("Mentor").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		respondError(c, err)
		return
	}

	images := profileImages(mentorIDs(requests))
	data := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		name := "Unknown"
		if r.Mentor.ID != "" {
			name = r.Mentor.FullName()
		}
		image, ok := images[r.MentorID]
		if !ok {
			image = models.DefaultProfileImage
		}
		data = append(data, gin.H{
			"_id":                r.ID,
			"status":             r.Status,
			"projectTechStack":   r.ProjectTechStack,
			"matchingPercentage": r.MatchingPercentage,
			"note":               r.Note,
			"rejectionNote":      r.RejectionNote,
			"createdAt":          r.CreatedAt,
			"mentor": gin.H{
				"_id":            r.MentorID,
				"name":           name,
				"specialization": r.Mentor.Specialization,
				"profileImage":   image,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(data), "data": data})
}

func mentorIDs(requests []models.MentorshipRequest) []string {
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.MentorID)
	}
	return ids
}

func profileImages(adviserIDs []string) map[string]string {
	images := make(map[string]string, len(adviserIDs))
	if len(adviserIDs) == 0 {
		return images
	}
	var profiles []models.AdviserProfile
	database.DB.Select("adviser_id", "profile_image").Where("adviser_id IN ?", adviserIDs).Find(&profiles)
	for _, p := range profiles {
		images[p.AdviserID] = p.ProfileImage
	}
	return images
}
