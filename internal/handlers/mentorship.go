package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

func GetMentorRequests(c *gin.Context) {
	mentorID := c.GetString("userId")

	var requests []models.MentorshipRequest
	if err := database.DB.Preload("Student").
		Where("mentor_id = ?", mentorID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		respondError(c, err)
		return
	}

	data := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		name := "Unknown"
		if r.Student.ID != "" {
			name = r.Student.FullName()
		}
		data = append(data, gin.H{
			"_id":                r.ID,
			"status":             r.Status,
			"projectTechStack":   r.ProjectTechStack,
			"matchingPercentage": r.MatchingPercentage,
			"note":               r.Note,
			"rejectionNote":      r.RejectionNote,
			"createdAt":          r.CreatedAt,
			"student": gin.H{
				"_id":     r.StudentID,
				"name":    name,
				"program": r.Student.Program,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(data), "data": data})
}

type RespondToRequestInput struct {
	Status        models.MentorshipStatus `json:"status" binding:"required,oneof=accepted rejected"`
	RejectionNote string                  `json:"rejectionNote"`
}

// RespondToRequest lets an adviser accept or reject one of their pending
// requests. Accepting opens messaging between the pair.
func RespondToRequest(c *gin.Context) {
	var input RespondToRequestInput
	if !bindJSON(c, &input) {
		return
	}
	mentorID := c.GetString("userId")

	var request models.MentorshipRequest
	err := database.DB.
		Where("id = ? AND mentor_id = ? AND status = ?", c.Param("requestId"), mentorID, models.MentorshipPending).
		First(&request).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Mentorship request not found or already processed"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	note := strings.TrimSpace(input.RejectionNote)
	if input.Status == models.MentorshipRejected && note == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please provide a rejection note"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": input.Status}
		if input.Status == models.MentorshipRejected {
			updates["rejection_note"] = note
		}
		// Guard on status so two concurrent responses cannot both apply
		res := tx.Model(&models.MentorshipRequest{}).
			Where("id = ? AND status = ?", request.ID, models.MentorshipPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if input.Status == models.MentorshipAccepted {
			return tx.Model(&models.AdviserProfile{}).
				Where("adviser_id = ?", mentorID).
				UpdateColumn("students_count", gorm.Expr("students_count + ?", 1)).Error
		}
		return nil
	})
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Mentorship request not found or already processed"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	request.Status = input.Status
	if input.Status == models.MentorshipRejected {
		request.RejectionNote = note
	}
	invalidateMentorCache()
	notify(request.StudentID, realtime.Event{Type: realtime.EventMentorship, Data: request})

	logger.Info().
		Str("request_id", request.ID).
		Str("status", string(input.Status)).
		Msg("Mentorship request answered")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Mentorship request " + string(input.Status),
		"data":    request,
	})
}

type AdviserApplicationInput struct {
	FullName          string `json:"fullName" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone" binding:"required"`
	JobTitle          string `json:"jobTitle" binding:"required"`
	Company           string `json:"company" binding:"required"`
	YearsOfExperience string `json:"yearsOfExperience" binding:"required"`
	Expertise         string `json:"expertise" binding:"required"`
	Bio               string `json:"bio" binding:"required"`
	ResumePath        string `json:"resumePath" binding:"required"`
	LinkedInProfile   string `json:"linkedInProfile" binding:"required"`
	GithubProfile     string `json:"githubProfile"`
	PortfolioWebsite  string `json:"portfolioWebsite"`
}

// ApplyForAdviserRole records an application for an admin to review.
func ApplyForAdviserRole(c *gin.Context) {
	var input AdviserApplicationInput
	if !bindJSON(c, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var pending int64
	if err := database.DB.Model(&models.AdviserApplication{}).
		Where("email = ? AND status = ?", email, models.ApplicationPending).
		Count(&pending).Error; err != nil {
		respondError(c, err)
		return
	}
	if pending > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "An application with this email is already under review"})
		return
	}

	application := models.AdviserApplication{
		FullName:          strings.TrimSpace(input.FullName),
		Email:             email,
		Phone:             input.Phone,
		JobTitle:          input.JobTitle,
		Company:           input.Company,
		YearsOfExperience: input.YearsOfExperience,
		Expertise:         input.Expertise,
		Bio:               input.Bio,
		ResumePath:        input.ResumePath,
		LinkedInProfile:   input.LinkedInProfile,
		GithubProfile:     input.GithubProfile,
		PortfolioWebsite:  input.PortfolioWebsite,
	}
	if err := database.DB.Create(&application).Error; err != nil {
		respondError(c, err)
		return
	}

	logger.Info().Str("application_id", application.ID).Msg("Adviser application submitted")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application submitted successfully",
		"data":    application,
	})
}
