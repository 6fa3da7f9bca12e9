package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the service.
type Config struct {
	Port          string
	RedisAddr     string
	AMQPURL       string
	AMQPExchange  string
	JWTSecret     string
	JWTIssuer     string
	TokenLifetime time.Duration
	Environment   string
	OTLPEndpoint  string
	DebugRoutes   bool
}

// Load reads configuration from the environment, optionally seeded from a
// .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "chat_app.events"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTIssuer:     getEnv("JWT_ISSUER", "chat-app"),
		TokenLifetime: getDuration("TOKEN_LIFETIME", 24*time.Hour),
		Environment:   getEnv("ENVIRONMENT", "dev"),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", ""),
		DebugRoutes:   getEnv("DEBUG_ROUTES", "") == "true",
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid duration for %s: %v", key, err)
		return fallback
	}
	return parsed
}
