package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Components receive
// it explicitly through their constructors; nothing reads the environment
// after Load returns.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT / admin session
	JwtSecret         string
	JwtTTL            time.Duration
	AdminEmail        string
	AdminPasswordHash string // bcrypt

	// Server
	ApiPort string

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseURL       string
	ImageMaxSizeMB     int
	ThumbnailMaxPx     int

	// Contact defaults shown on the public site
	AppName        string
	ContactEmail   string
	ContactPhone   string
	WhatsappNumber string

	// Currency conversion
	ExchangeRateAPIURL string
	ExchangeRateTTL    time.Duration

	// Rate limiting
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables. RunMode comes from
// command-line flags and is passed in.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "gumucio")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseURL = getEnv("IMAGE_BASE_URL", "")
	cfg.AppName = getEnv("APP_NAME", "Gumucio Propiedades")
	cfg.ContactEmail = getEnv("CONTACT_EMAIL", "gumuciopropiedades@gmail.com")
	cfg.ContactPhone = getEnv("CONTACT_PHONE", "+56 9 9783 0533")
	cfg.WhatsappNumber = getEnv("WHATSAPP_NUMBER", "56997830533")
	cfg.ExchangeRateAPIURL = getEnv("EXCHANGE_RATE_API_URL", "https://api.exchangerate-api.com/v4/latest")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", "3600"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	cfg.ImageMaxSizeMB, err = strconv.Atoi(getEnv("IMAGE_MAX_SIZE_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_SIZE_MB: %w", err)
	}

	cfg.ThumbnailMaxPx, err = strconv.Atoi(getEnv("THUMBNAIL_MAX_PX", "400"))
	if err != nil {
		return nil, fmt.Errorf("invalid THUMBNAIL_MAX_PX: %w", err)
	}

	rateTTLHours, err := strconv.Atoi(getEnv("EXCHANGE_RATE_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXCHANGE_RATE_TTL_HOURS: %w", err)
	}
	cfg.ExchangeRateTTL = time.Duration(rateTTLHours) * time.Hour

	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}

	return cfg, nil
}
