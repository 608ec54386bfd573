package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens
	AccessTokenSecret       string
	RefreshTokenSecret      string
	AccessTokenExpireHours  string
	RefreshTokenExpireDays  string
	ResetTokenExpireMinutes string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Email Configuration
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPUseTLS    bool

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts string
	RegisterRateLimitWindowHours string
	RegisterRateLimitBlockHours  string

	// Password Reset Rate Limiting
	PasswordResetMaxAttempts   string
	PasswordResetWindowMinutes string
	PasswordResetBlockHours    string

	// Frontend URL (reset/invite links point here)
	FrontendURL string

	// Server
	ServerPort  string
	Environment string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "orghub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Tokens
		AccessTokenSecret:       getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret:      getEnv("REFRESH_TOKEN_SECRET", ""),
		AccessTokenExpireHours:  getEnv("ACCESS_TOKEN_EXPIRE_HOURS", "48"),
		RefreshTokenExpireDays:  getEnv("REFRESH_TOKEN_EXPIRE_DAYS", "7"),
		ResetTokenExpireMinutes: getEnv("RESET_TOKEN_EXPIRE_MINUTES", "20"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Email Configuration
		EmailFrom:     getEnv("EMAIL_FROM", "no-reply@orghub.dev"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "OrgHub"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:    getEnvAsBool("SMTP_USE_TLS", false),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts: getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "3"),
		RegisterRateLimitWindowHours: getEnv("REGISTER_RATE_LIMIT_WINDOW_HOURS", "24"),
		RegisterRateLimitBlockHours:  getEnv("REGISTER_RATE_LIMIT_BLOCK_HOURS", "48"),

		// Password Reset Rate Limiting
		PasswordResetMaxAttempts:   getEnv("PASSWORD_RESET_MAX_ATTEMPTS", "3"),
		PasswordResetWindowMinutes: getEnv("PASSWORD_RESET_WINDOW_MINUTES", "60"),
		PasswordResetBlockHours:    getEnv("PASSWORD_RESET_BLOCK_HOURS", "24"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Server
		ServerPort:  getEnv("SERVER_PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// ValidateSecrets fails fast when signing secrets are not configured.
// An unset secret is a configuration error, not a runtime error to recover from.
func (c *Config) ValidateSecrets() {
	if c.AccessTokenSecret == "" {
		log.Fatal("❌ ACCESS_TOKEN_SECRET is not set")
	}
	if c.RefreshTokenSecret == "" {
		log.Fatal("❌ REFRESH_TOKEN_SECRET is not set")
	}
}

// IsProduction reports whether the service runs in production mode.
// Controls the Secure flag on auth cookies.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetAccessTokenExpireDuration returns the access token lifetime
func (c *Config) GetAccessTokenExpireDuration() time.Duration {
	hours, err := strconv.Atoi(c.AccessTokenExpireHours)
	if err != nil {
		return 48 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// GetRefreshTokenExpireDuration returns the refresh token lifetime
func (c *Config) GetRefreshTokenExpireDuration() time.Duration {
	days, err := strconv.Atoi(c.RefreshTokenExpireDays)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return time.Duration(days) * 24 * time.Hour
}

// GetResetTokenExpireDuration returns the password reset token lifetime
func (c *Config) GetResetTokenExpireDuration() time.Duration {
	minutes, err := strconv.Atoi(c.ResetTokenExpireMinutes)
	if err != nil {
		return 20 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// GetField returns a configuration field by name
func (c *Config) GetField(key string) string {
	switch key {
	case "LoginRateLimitMaxAttempts":
		return c.LoginRateLimitMaxAttempts
	case "LoginRateLimitWindowSeconds":
		return c.LoginRateLimitWindowSeconds
	case "LoginRateLimitBlockMinutes":
		return c.LoginRateLimitBlockMinutes
	case "RegisterRateLimitMaxAttempts":
		return c.RegisterRateLimitMaxAttempts
	case "RegisterRateLimitWindowHours":
		return c.RegisterRateLimitWindowHours
	case "RegisterRateLimitBlockHours":
		return c.RegisterRateLimitBlockHours
	case "PasswordResetMaxAttempts":
		return c.PasswordResetMaxAttempts
	case "PasswordResetWindowMinutes":
		return c.PasswordResetWindowMinutes
	case "PasswordResetBlockHours":
		return c.PasswordResetBlockHours
	default:
		return ""
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
