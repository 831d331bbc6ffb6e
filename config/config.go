package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	EmailSender    string
	SendGridApiKey string

	DefaultCurrency string

	LencoApiURL        string // Base URL for the Lenco API
	LencoApiKey        string // Bearer key for outbound Lenco calls
	LencoWebhookSecret string // Shared secret for webhook HMAC verification
	WebhookDevBypass   bool   // Skip signature checks (local development only)
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "edutrack"),
		DBPort:     getEnv("DB_PORT", "5432"),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@edutrack.io"),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "ZMW"),

		LencoApiURL:        getEnv("LENCO_API_URL", "https://api.lenco.co/access/v1"),
		LencoApiKey:        getEnv("LENCO_API_KEY", ""),
		LencoWebhookSecret: getEnv("LENCO_WEBHOOK_SECRET", ""),
		WebhookDevBypass:   getEnvBool("WEBHOOK_DEV_BYPASS", false),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.LencoWebhookSecret == "" && !AppConfig.WebhookDevBypass {
		log.Println("Warning: LENCO_WEBHOOK_SECRET is not set. All incoming webhooks will be rejected.")
	}
	if AppConfig.WebhookDevBypass {
		log.Println("Warning: WEBHOOK_DEV_BYPASS is enabled. Webhook signatures are NOT verified.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvBool retrieves an environment variable as a boolean or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
