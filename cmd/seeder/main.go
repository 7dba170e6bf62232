package main

import (
	"log"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations (just in case)...")
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if _, err := seeds.GetOrCreateAdmin("admin@devguidance.dev", "DevGuidance Admin", seeds.DemoPassword); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	students, err := seeds.SeedStudents()
	if err != nil {
		log.Fatalf("Failed to seed students: %v", err)
	}
	advisers, err := seeds.SeedAdvisers()
	if err != nil {
		log.Fatalf("Failed to seed advisers: %v", err)
	}

	requests, err := seeds.SeedMentorships(students, advisers)
	if err != nil {
		log.Fatalf("Failed to seed mentorships: %v", err)
	}
	for _, r := range requests {
		if err := seeds.SeedConversation(r); err != nil {
			log.Fatalf("Failed to seed conversation: %v", err)
		}
	}

	log.Printf("Seeding complete. Demo password: %s", seeds.DemoPassword)
}
