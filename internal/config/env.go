package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	AIAPIKey     string
	GenModel     string
	JWTSecret    string
	Env          string
	Port         string

	MaxFileSizeBytes int64

	// Low-signal extraction heuristics. The defaults come from observed
	// behaviour of scanned PDFs and photo uploads; tune per deployment.
	PDFMinChars      int
	PDFMinBytes      int
	ImageMinChars    int
	ImageMinBytes    int
	FallbackMinChars int
}

// LoadConfig loads the environment variables and returns the config.
// Missing required credentials are a startup failure, never a per-request one.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "studylens-uploads"),
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash-8b"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		Env:          getEnv("ENV", "development"),
		Port:         getEnv("PORT", "8080"),

		MaxFileSizeBytes: getEnvInt64("MAX_FILE_SIZE", 10<<20),

		PDFMinChars:      getEnvInt("PDF_MIN_CHARS", 100),
		PDFMinBytes:      getEnvInt("PDF_MIN_BYTES", 100<<10),
		ImageMinChars:    getEnvInt("IMAGE_MIN_CHARS", 10),
		ImageMinBytes:    getEnvInt("IMAGE_MIN_BYTES", 10<<10),
		FallbackMinChars: getEnvInt("PDF_FALLBACK_MIN_CHARS", 50),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.AIAPIKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		log.Fatal("AWS_ACCESS_KEY / AWS_SECRET_KEY not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvInt64(key string, def int64) int64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
