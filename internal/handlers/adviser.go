package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

type AdviserRegisterInput struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	EmployeeID     string `json:"employeeId" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
}

func adviserJSON(a *models.Adviser) gin.H {
	return gin.H{
		"id":             a.ID,
		"firstName":      a.FirstName,
		"lastName":       a.LastName,
		"email":          a.Email,
		"employeeId":     a.EmployeeID,
		"specialization": a.Specialization,
	}
}

func RegisterAdviser(c *gin.Context) {
	var input AdviserRegisterInput
	if !bindJSON(c, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := database.DB.Model(&models.Adviser{}).
		Where("email = ? OR employee_id = ?", email, input.EmployeeID).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Adviser already exists with this email or ID"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to hash password"})
		return
	}

	adviser := models.Adviser{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          email,
		Password:       hashed,
		EmployeeID:     input.EmployeeID,
		Specialization: input.Specialization,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&adviser).Error; err != nil {
			return err
		}
		return tx.Create(&models.AdviserProfile{AdviserID: adviser.ID}).Error
	})
	if err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("Adviser registration failed")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Adviser already exists with this email or ID"})
		return
	}
	invalidateMentorCache()

	token, ok := issueToken(c, adviser.ID, models.RoleAdviser)
	if !ok {
		return
	}

	logger.Info().Str("user_id", adviser.ID).Msg("Adviser registered")
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "adviser": adviserJSON(&adviser)})
}

func LoginAdviser(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	var adviser models.Adviser
	if err := database.DB.Where("email = ?", strings.ToLower(input.Email)).First(&adviser).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}
	if !utils.CheckPassword(adviser.Password, input.Password) {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	token, ok := issueToken(c, adviser.ID, models.RoleAdviser)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "adviser": adviserJSON(&adviser)})
}

// loadProfile returns the adviser's profile, creating an empty one for
// accounts that predate profiles.
func loadProfile(adviserID string) (*models.AdviserProfile, error) {
	var profile models.AdviserProfile
	err := database.DB.Preload("Adviser").Where("adviser_id = ?", adviserID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var adviser models.Adviser
	if err := database.DB.First(&adviser, "id = ?", adviserID).Error; err != nil {
		return nil, err
	}
	profile = models.AdviserProfile{AdviserID: adviserID}
	if err := database.DB.Create(&profile).Error; err != nil {
		return nil, err
	}
	profile.Adviser = adviser
	return &profile, nil
}

func profileJSON(p *models.AdviserProfile, private bool) gin.H {
	out := gin.H{
		"_id":              p.ID,
		"adviser":          p.AdviserID,
		"firstName":        p.Adviser.FirstName,
		"lastName":         p.Adviser.LastName,
		"specialization":   p.Adviser.Specialization,
		"title":            p.Title,
		"company":          p.Company,
		"location":         p.Location,
		"bio":              p.Bio,
		"expertise":        nonNil(p.Expertise),
		"education":        p.Education,
		"experience":       p.Experience,
		"certifications":   p.Certifications,
		"techStack":        p.TechStack,
		"socialLinks":      p.SocialLinks.Data(),
		"mentoringSummary": p.MentoringSummary(),
		"availability":     p.Availability,
		"profileImage":     p.ProfileImage,
		"updatedAt":        p.UpdatedAt,
	}
	if private {
		out["email"] = p.Adviser.Email
		out["phone"] = p.Phone
	}
	return out
}

func GetAdviserProfile(c *gin.Context) {
	profile, err := loadProfile(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": profileJSON(profile, true)})
}

func GetPublicAdviserProfile(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
		return
	}

	var profile models.AdviserProfile
	if err := database.DB.Preload("Adviser").Where("adviser_id = ?", id).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": profileJSON(&profile, false)})
}

// UpdateProfileInput holds the editable profile sections. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Title          *string              `json:"title"`
	Company        *string              `json:"company"`
	Location       *string              `json:"location"`
	Phone          *string              `json:"phone"`
	Bio            *string              `json:"bio"`
	Expertise      []string             `json:"expertise"`
	Education      []models.Education   `json:"education"`
	Experience     []models.Experience  `json:"experience"`
	Certifications []string             `json:"certifications"`
	TechStack      []models.TechSkill   `json:"techStack"`
	SocialLinks    *models.SocialLinks  `json:"socialLinks"`
	Availability   *models.Availability `json:"availability" binding:"omitempty,oneof=Available Busy Away"`
}

func (in *UpdateProfileInput) apply(p *models.AdviserProfile) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setString(&p.Title, in.Title)
	setString(&p.Company, in.Company)
	setString(&p.Location, in.Location)
	setString(&p.Phone, in.Phone)
	setString(&p.Bio, in.Bio)

	if in.Expertise != nil {
		p.Expertise = datatypes.JSONSlice[string](in.Expertise)
	}
	if in.Education != nil {
		p.Education = datatypes.JSONSlice[models.Education](in.Education)
	}
	if in.Experience != nil {
		p.Experience = datatypes.JSONSlice[models.Experience](in.Experience)
	}
	if in.Certifications != nil {
		p.Certifications = datatypes.JSONSlice[string](in.Certifications)
	}
	if in.TechStack != nil {
		p.TechStack = datatypes.JSONSlice[models.TechSkill](in.TechStack)
	}
	if in.SocialLinks != nil {
		p.SocialLinks = datatypes.NewJSONType(*in.SocialLinks)
	}
	if in.Availability != nil {
		p.Availability = *in.Availability
	}
}

func UpdateAdviserProfile(c *gin.Context) {
	var input UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := loadProfile(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
		return
	}

	input.apply(profile)
	if err := database.DB.Omit("Adviser").Save(profile).Error; err != nil {
		respondError(c, err)
		return
	}
	invalidateMentorCache()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profileJSON(profile, true)})
}

type MentoringSummaryInput struct {
	StudentsCount     *int `json:"studentsCount" binding:"omitempty,min=0"`
	ProjectsCompleted *int `json:"projectsCompleted" binding:"omitempty,min=0"`
}

func UpdateMentoringSummary(c *gin.Context) {
	var input MentoringSummaryInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := loadProfile(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
		return
	}

	if input.StudentsCount != nil {
		profile.StudentsCount = *input.StudentsCount
	}
	if input.ProjectsCompleted != nil {
		profile.ProjectsCompleted = *input.ProjectsCompleted
	}
	if err := database.DB.Model(profile).Updates(map[string]interface{}{
		"students_count":     profile.StudentsCount,
		"projects_completed": profile.ProjectsCompleted,
	}).Error; err != nil {
		respondError(c, err)
		return
	}
	invalidateMentorCache()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile.MentoringSummary()})
}

func UploadAdviserProfileImage(c *gin.Context) {
	header := formFile(c, "profileImage")
	if header == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	profile, err := loadProfile(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
		return
	}

	url, err := storeUpload(c, header, profileImageRule)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DB.Model(profile).Update("profile_image", url).Error; err != nil {
		respondError(c, err)
		return
	}
	invalidateMentorCache()

	c.JSON(http.StatusOK, gin.H{"success": true, "profileImage": url})
}
