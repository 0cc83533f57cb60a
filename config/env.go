package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Redis   RedisConfig
	DB      DBConfig
	Auth    AuthConfig
	Gateway GatewayConfig
	Service ServiceConfig
}

type DBConfig struct {
	DSN string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type GatewayConfig struct {
	Addr        string
	RateLimit   string
	CORSOrigins []string
}

type ServiceConfig struct {
	GRPCAddr   string
	ServiceURL string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		log.Printf("invalid TOKEN_TTL, defaulting to 24h: %v", err)
		tokenTTL = 24 * time.Hour
	}

	return Config{
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			DSN: getEnv("BACKOFFICE_DSN", "host=localhost user=postgres password=postgres dbname=backoffice port=5432 sslmode=disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-backoffice-secret"),
			TokenTTL:  tokenTTL,
		},
		Gateway: GatewayConfig{
			Addr:        getEnv("GATEWAY_ADDR", ":8080"),
			RateLimit:   getEnv("RATE_LIMIT", "100-M"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		},
		Service: ServiceConfig{
			GRPCAddr:   getEnv("BACKOFFICE_GRPC_ADDR", ":50054"),
			ServiceURL: getEnv("BACKOFFICE_SERVICE_URL", "localhost:50054"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
