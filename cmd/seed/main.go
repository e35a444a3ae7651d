package main

import (
	"log"
	"os"

	"github.com/wparames/honeymart/internal/config"
	"github.com/wparames/honeymart/internal/database"
	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/internal/utils"
)

// Creates the admin account if it does not exist yet. The refresher also
// recreates the fixed seed accounts every cycle; this binary covers fresh
// deployments where the refresher has not run.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Email)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully:", admin.Email)
}
