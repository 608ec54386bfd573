package main

import (
	"log"

	"orghub-backend/shared/config"
	"orghub-backend/shared/database"
)

func main() {
	log.Println("🌱 Starting database seeding...")

	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Run seeding
	if err := database.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}
