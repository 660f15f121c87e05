package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DatabaseURL string

	JWTSecret     []byte
	JWTIssuer     string
	JWTAudience   string
	AccessMinutes int

	SeedAdminEmail    string
	SeedAdminUsername string
	SeedAdminPassword string

	SupportedLocales []string

	KafkaAddress string

	ESURL      string
	ESUser     string
	ESPassword string

	LogLevel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "multilingual_crud"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:     EnvDefault("JWT_ISSUER", "multilingual_crud"),
		JWTAudience:   EnvDefault("JWT_AUDIENCE", "multilingual_crud_clients"),
		AccessMinutes: EnvIntDefault("ACCESS_TOKEN_MINUTES", 15),

		SeedAdminEmail:    EnvDefault("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminUsername: EnvDefault("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: EnvDefault("SEED_ADMIN_PASSWORD", "Admin@12345"),

		SupportedLocales: CSV(EnvDefault("SUPPORTED_LOCALES", "en,hi,bn")),

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
