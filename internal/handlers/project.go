package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

type ProjectInput struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   time.Time            `json:"startDate" binding:"required"`
	Deadline    time.Time            `json:"deadline" binding:"required"`
	TechStack   []string             `json:"techStack"`
	Objectives  []string             `json:"objectives"`
	MentorID    *string              `json:"mentorId"`
}

func (in *ProjectInput) validate() string {
	if in.Status != "" && !in.Status.Valid() {
		return "status must be one of: Not Started, Planning, In Progress, Final Stages, Completed"
	}
	if in.Deadline.Before(in.StartDate) {
		return "deadline must not be before startDate"
	}
	return ""
}

func CreateProject(c *gin.Context) {
	var input ProjectInput
	if !bindJSON(c, &input) {
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	project := models.Project{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		StartDate:   input.StartDate,
		Deadline:    input.Deadline,
		TechStack:   input.TechStack,
		Objectives:  input.Objectives,
		StudentID:   c.GetString("userId"),
		MentorID:    input.MentorID,
	}
	if err := database.DB.Create(&project).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": project})
}

// GetStudentProjects lists the caller's projects, most recent first.
func GetStudentProjects(c *gin.Context) {
	var projects []models.Project
	if err := database.DB.Where("student_id = ?", c.GetString("userId")).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		respondError(c, err)
		return
	}

	if len(projects) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No project found for this student"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(projects), "data": projects})
}

func findOwnProject(c *gin.Context) (*models.Project, bool) {
	id := c.Param("id")
	var project models.Project
	if !utils.IsUUID(id) || database.DB.Where("id = ? AND student_id = ?", id, c.GetString("userId")).First(&project).Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Project not found"})
		return nil, false
	}
	return &project, true
}

func GetProject(c *gin.Context) {
	project, ok := findOwnProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

func UpdateProject(c *gin.Context) {
	project, ok := findOwnProject(c)
	if !ok {
		return
	}

	var input ProjectInput
	if !bindJSON(c, &input) {
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	project.Title = input.Title
	project.Description = input.Description
	if input.Status != "" {
		project.Status = input.Status
	}
	project.StartDate = input.StartDate
	project.Deadline = input.Deadline
	project.TechStack = input.TechStack
	project.Objectives = input.Objectives
	project.MentorID = input.MentorID

	if err := database.DB.Save(project).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}
