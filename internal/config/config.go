package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration

	MongoTransactions bool
	OrderWriteRetries int

	UploadDir     string
	UploadBaseURL string
	PublicBaseURL string

	RedisAddr string
	CartTTL   time.Duration

	KafkaBrokers     string
	KafkaOrdersTopic string

	CORSAllowedOrigins []string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration without touching .env files.
func FromEnv() Config {
	return Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "restaurantportal"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),

		MongoTransactions: getBoolEnv("MONGO_TRANSACTIONS", true),
		OrderWriteRetries: getIntEnv("ORDER_WRITE_RETRIES", 3),

		UploadDir:     getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),
		UploadBaseURL: getEnvOrDefault("UPLOAD_BASE_URL", "/uploads"),
		PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),

		RedisAddr: getEnvOrDefault("REDIS_ADDR", ""),
		CartTTL:   getDurationEnv("CART_TTL", 72, time.Hour),

		KafkaBrokers:     getEnvOrDefault("KAFKA_BROKERS", ""),
		KafkaOrdersTopic: getEnvOrDefault("KAFKA_ORDERS_TOPIC", "restaurant-orders"),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate reports the first required setting that is missing.
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("ENV %s is required", "MONGO_URI")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("ENV %s is required", "JWT_SECRET")
	}
	return nil
}
