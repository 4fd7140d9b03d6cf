package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	AppMode     string
	StoreDriver string
	CORSOrigins []string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicBase   string
	S3UsePathStyle bool
	PresignTTLMin  int
	URLCacheTTLMin int

	MessageRateLimit  int
	ReactionRateLimit int
	RateLimitWindowS  int
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		AppMode:     getEnv("APP_MODE", "debug"),
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "teamchat"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", true),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3PublicBase:   getEnv("S3_PUBLIC_BASE_URL", ""),
		S3UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", false),
		PresignTTLMin:  getEnvAsInt("S3_PRESIGN_TTL_MIN", 15),
		URLCacheTTLMin: getEnvAsInt("URL_CACHE_TTL_MIN", 10),

		MessageRateLimit:  getEnvAsInt("RATE_LIMIT_MESSAGES", 30),
		ReactionRateLimit: getEnvAsInt("RATE_LIMIT_REACTIONS", 60),
		RateLimitWindowS:  getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
