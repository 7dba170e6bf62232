package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/errors"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

type AdminRegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func adminJSON(a *models.Admin) gin.H {
	return gin.H{
		"id":    a.ID,
		"email": a.Email,
		"name":  a.Name,
		"role":  a.Role,
	}
}

func RegisterAdmin(c *gin.Context) {
	var input AdminRegisterInput
	if !bindJSON(c, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := database.DB.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Admin with this email already exists"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to hash password"})
		return
	}

	admin := models.Admin{Name: input.Name, Email: email, Password: hashed, Role: models.RoleAdmin}
	if err := database.DB.Create(&admin).Error; err != nil {
		respondError(c, err)
		return
	}

	logger.Info().Str("admin_id", admin.ID).Msg("Admin registered")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin registered successfully",
		"admin":   adminJSON(&admin),
	})
}

func LoginAdmin(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	var admin models.Admin
	if err := database.DB.Where("email = ?", strings.ToLower(input.Email)).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}
	if !utils.CheckPassword(admin.Password, input.Password) {
		logger.Warn().Str("email", input.Email).Msg("Admin login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	now := time.Now()
	admin.LastLogin = &now
	database.DB.Model(&admin).Update("last_login", now)

	token, ok := issueToken(c, admin.ID, models.RoleAdmin)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "admin": adminJSON(&admin)})
}

func VerifyAdmin(c *gin.Context) {
	admin := c.MustGet("admin").(*models.Admin)
	c.JSON(http.StatusOK, gin.H{"success": true, "admin": adminJSON(admin)})
}

func ListAdviserApplications(c *gin.Context) {
	query := database.DB.Order("applied_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var applications []models.AdviserApplication
	if err := query.Find(&applications).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(applications), "data": applications})
}

func GetAdviserApplication(c *gin.Context) {
	var application models.AdviserApplication
	if err := database.DB.First(&application, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": application})
}

type ApplicationDecisionInput struct {
	Status    models.ApplicationStatus `json:"status" binding:"required,oneof=accepted rejected"`
	AdminNote string                   `json:"adminNote"`
}

// DecideAdviserApplication records an admin's decision. Accepting creates
// the adviser account with a temporary password that is only returned here.
func DecideAdviserApplication(c *gin.Context) {
	var input ApplicationDecisionInput
	if !bindJSON(c, &input) {
		return
	}
	admin := c.MustGet("admin").(*models.Admin)

	var application models.AdviserApplication
	if err := database.DB.First(&application, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Application not found"})
		return
	}
	if application.Status != models.ApplicationPending {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Application has already been reviewed"})
		return
	}

	var (
		adviser      *models.Adviser
		tempPassword string
	)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		application.Status = input.Status
		application.AdminNote = input.AdminNote
		application.ReviewedAt = &now
		application.ReviewedBy = &admin.ID

		if input.Status == models.ApplicationAccepted {
			var err error
			adviser, tempPassword, err = provisionAdviser(tx, &application)
			if err != nil {
				return err
			}
			application.AdviserID = &adviser.ID
		}
		return tx.Save(&application).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info().
		Str("application_id", application.ID).
		Str("status", string(application.Status)).
		Str("reviewed_by", admin.ID).
		Msg("Adviser application reviewed")

	resp := gin.H{
		"success": true,
		"message": fmt.Sprintf("Application %s", application.Status),
		"data":    application,
	}
	if adviser != nil {
		invalidateMentorCache()
		resp["adviser"] = adviserJSON(adviser)
		resp["temporaryPassword"] = tempPassword
	}
	c.JSON(http.StatusOK, resp)
}

func provisionAdviser(tx *gorm.DB, app *models.AdviserApplication) (*models.Adviser, string, error) {
	var count int64
	if err := tx.Model(&models.Adviser{}).Where("email = ?", app.Email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", errors.BadRequest("An adviser account already exists for this email")
	}

	password, err := utils.TemporaryPassword()
	if err != nil {
		return nil, "", err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	first, last := splitName(app.FullName)
	adviser := &models.Adviser{
		FirstName:      first,
		LastName:       last,
		Email:          app.Email,
		Password:       hashed,
		EmployeeID:     "ADV-" + strings.ToUpper(utils.GenerateID()[:8]),
		Specialization: app.JobTitle,
	}
	if err := tx.Create(adviser).Error; err != nil {
		return nil, "", err
	}

	profile := models.AdviserProfile{
		AdviserID: adviser.ID,
		Title:     app.JobTitle,
		Company:   app.Company,
		Phone:     app.Phone,
		Bio:       app.Bio,
		Expertise: datatypes.JSONSlice[string](splitList(app.Expertise)),
		SocialLinks: datatypes.NewJSONType(models.SocialLinks{
			Linkedin: app.LinkedInProfile,
			Github:   app.GithubProfile,
			Website:  app.PortfolioWebsite,
		}),
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, "", err
	}
	return adviser, password, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
