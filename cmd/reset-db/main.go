package main

import (
	"log"

	"orghub-backend/shared/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	log.Println("🗑️ Starting database reset...")

	config.LoadConfig()
	cfg := config.GetConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=" + cfg.DBSSLMode +
		" TimeZone=UTC"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	tables := []string{
		"organization_users",
		"users",
		"organizations",
	}

	log.Println("🗑️ Dropping all tables...")

	for _, table := range tables {
		log.Printf("   Dropping table: %s", table)
		db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE;")
	}

	log.Println("✅ Database reset completed - all tables dropped!")
	log.Println("💡 Run the seed command to recreate tables and seed data")
}
