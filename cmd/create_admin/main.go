package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/seeds"
)

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Admin", "display name")
	password := flag.String("password", "", "initial password (min 6 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		log.Fatal("Usage: create_admin -email admin@example.com -password secret [-name Admin]")
	}

	config.LoadConfig()
	database.Connect()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	admin, err := seeds.GetOrCreateAdmin(strings.ToLower(*email), *name, *password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin ready: %s (%s)\n", admin.Email, admin.ID)
}
