package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

// Pix is the webhook-only provider: the charge is created server-side and the
// only trusted confirmation is the webhook carrying AccessToken.
type Pix struct {
	BaseURL     string
	APIKey      string
	AccessToken string
}

// Checkout is the hosted-session provider: the client renders an embedded
// session from the returned secret; webhooks are signed with SigningSecret.
type Checkout struct {
	BaseURL       string
	APIKey        string
	SigningSecret string
	ReturnURL     string
}

type Config struct {
	ServerPort         int
	DB                 DB
	MinIO              MinIO
	Pix                Pix
	Checkout           Checkout
	AdminSessionSecret string
	PostPrice          float64
	PostTTL            time.Duration
	MaxUploadSize      int64
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "jacupemba"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "showcase-media"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
	}
}

func LoadPix() Pix {
	return Pix{
		BaseURL:     getEnv("PIX_BASE_URL", "https://api.pix-provider.com/v3"),
		APIKey:      getEnv("PIX_API_KEY", ""),
		AccessToken: getEnv("PIX_WEBHOOK_TOKEN", ""),
	}
}

func LoadCheckout() Checkout {
	return Checkout{
		BaseURL:       getEnv("CHECKOUT_BASE_URL", "https://api.checkout-provider.com/v1"),
		APIKey:        getEnv("CHECKOUT_API_KEY", ""),
		SigningSecret: getEnv("CHECKOUT_SIGNING_SECRET", ""),
		ReturnURL:     getEnv("CHECKOUT_RETURN_URL", "http://localhost:3000/pagamento/retorno"),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:         getEnvAsInt("SERVER_PORT", 8080),
		DB:                 LoadDB(),
		MinIO:              LoadMinIO(),
		Pix:                LoadPix(),
		Checkout:           LoadCheckout(),
		AdminSessionSecret: getEnv("ADMIN_SESSION_SECRET", ""),
		PostPrice:          getEnvAsFloat("POST_PRICE", 30.00),
		PostTTL:            parseDuration(getEnv("POST_TTL", "48h"), 48*time.Hour),
		MaxUploadSize:      parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}
