package seeds

import (
	"log"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/utils"
	"gorm.io/datatypes"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "DevGuidance2024!"

func GetOrCreateAdmin(email, name, password string) (models.Admin, error) {
	log.Println("Checking admin account...")

	var admin models.Admin
	if err := database.DB.Where("email = ?", email).First(&admin).Error; err == nil {
		log.Printf("   Admin found: %s", admin.Email)
		return admin, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}
	admin = models.Admin{Name: name, Email: email, Password: hash, Role: models.RoleAdmin}
	if err := database.DB.Create(&admin).Error; err != nil {
		return models.Admin{}, err
	}

	log.Printf("   Admin created: %s", admin.Email)
	return admin, nil
}

func SeedStudents() ([]models.Student, error) {
	log.Println("Seeding students...")

	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	demo := []models.Student{
		{FirstName: "Aisha", LastName: "Khan", Email: "aisha.khan@student.devguidance.dev", StudentNumber: "STU-1001", Program: "Computer Science"},
		{FirstName: "Lucas", LastName: "Moreau", Email: "lucas.moreau@student.devguidance.dev", StudentNumber: "STU-1002", Program: "Software Engineering"},
		{FirstName: "Mei", LastName: "Tanaka", Email: "mei.tanaka@student.devguidance.dev", StudentNumber: "STU-1003", Program: "Data Science"},
	}

	out := make([]models.Student, 0, len(demo))
	for _, s := range demo {
		s.Password = hash
		if err := database.DB.Where("email = ?", s.Email).FirstOrCreate(&s).Error; err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	log.Printf("   %d students ready", len(out))
	return out, nil
}

type adviserSeed struct {
	adviser   models.Adviser
	title     string
	company   string
	expertise []string
}

func SeedAdvisers() ([]models.Adviser, error) {
	log.Println("Seeding advisers...")

	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	demo := []adviserSeed{
		{
			adviser:   models.Adviser{FirstName: "Daniel", LastName: "Okafor", Email: "daniel.okafor@devguidance.dev", EmployeeID: "ADV-0001", Specialization: "Backend Systems"},
			title:     "Staff Engineer",
			company:   "Northwind",
			expertise: []string{"Go", "PostgreSQL", "Redis", "Kubernetes"},
		},
		{
			adviser:   models.Adviser{FirstName: "Sofia", LastName: "Rossi", Email: "sofia.rossi@devguidance.dev", EmployeeID: "ADV-0002", Specialization: "Frontend"},
			title:     "Senior Frontend Engineer",
			company:   "Contoso",
			expertise: []string{"React", "TypeScript", "Node.js"},
		},
	}

	out := make([]models.Adviser, 0, len(demo))
	for _, d := range demo {
		a := d.adviser
		a.Password = hash
		if err := database.DB.Where("email = ?", a.Email).FirstOrCreate(&a).Error; err != nil {
			return nil, err
		}

		profile := models.AdviserProfile{
			AdviserID: a.ID,
			Title:     d.title,
			Company:   d.company,
			Bio:       d.title + " at " + d.company,
			Expertise: datatypes.JSONSlice[string](d.expertise),
		}
		if err := database.DB.Where("adviser_id = ?", a.ID).FirstOrCreate(&profile).Error; err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	log.Printf("   %d advisers ready", len(out))
	return out, nil
}
