package seeds

import (
	"log"
	"time"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/internal/services"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SeedMentorships pairs the first student with the first adviser (accepted)
// and leaves one pending request so both flows have data.
func SeedMentorships(students []models.Student, advisers []models.Adviser) ([]models.MentorshipRequest, error) {
	log.Println("Seeding mentorship requests...")

	if len(students) < 2 || len(advisers) < 2 {
		log.Println("   Not enough accounts, skipping")
		return nil, nil
	}

	pairs := []struct {
		student models.Student
		adviser models.Adviser
		status  models.MentorshipStatus
		stack   []string
	}{
		{students[0], advisers[0], models.MentorshipAccepted, []string{"Go", "PostgreSQL", "Docker"}},
		{students[1], advisers[1], models.MentorshipPending, []string{"React", "GraphQL"}},
	}

	out := make([]models.MentorshipRequest, 0, len(pairs))
	for _, p := range pairs {
		var profile models.AdviserProfile
		database.DB.Where("adviser_id = ?", p.adviser.ID).First(&profile)

		req := models.MentorshipRequest{
			StudentID:          p.student.ID,
			MentorID:           p.adviser.ID,
			ProjectTechStack:   pq.StringArray(p.stack),
			Note:               "Looking for guidance on my capstone project",
			Status:             p.status,
			MatchingPercentage: services.CalculateMatchingPercentage(p.stack, profile.Expertise),
		}
		err := database.DB.
			Where("student_id = ? AND mentor_id = ?", p.student.ID, p.adviser.ID).
			FirstOrCreate(&req).Error
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	log.Printf("   %d mentorship requests ready", len(out))
	return out, nil
}

// SeedConversation writes a short exchange for an accepted pair. Existing
// threads are left alone.
func SeedConversation(req models.MentorshipRequest) error {
	if req.Status != models.MentorshipAccepted {
		return nil
	}
	log.Println("Seeding conversation...")

	student := models.NewStudent(req.StudentID)
	adviser := models.NewAdviser(req.MentorID)

	var existing int64
	database.DB.Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			req.StudentID, req.MentorID, req.MentorID, req.StudentID).
		Count(&existing)
	if existing > 0 {
		log.Println("   Conversation already present")
		return nil
	}

	lines := []struct {
		from, to models.Participant
		text     string
	}{
		{student, adviser, "Hi! Thanks for accepting my request."},
		{adviser, student, "Happy to help. Can you share your project plan?"},
		{student, adviser, "Sure, I'll upload it tonight."},
	}

	start := time.Now().Add(-time.Hour)
	return database.DB.Transaction(func(tx *gorm.DB) error {
		for i, l := range lines {
			msg := models.Message{
				SenderID:     l.from.ID(),
				SenderKind:   l.from.Role(),
				ReceiverID:   l.to.ID(),
				ReceiverKind: l.to.Role(),
				Content:      l.text,
				IsRead:       i < len(lines)-1,
				Timestamp:    start.Add(time.Duration(i) * time.Minute),
			}
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
		}
		log.Printf("   %d messages written", len(lines))
		return nil
	})
}
