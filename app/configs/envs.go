package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const insecureSecretKey = "mysecretkey"

type ENV struct {
	AppEnv         string
	Port           string
	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBLogLevel     string
	DBMaxRetries   int
	SecretKey      string
	SessionEncKey  string
	CSRFEnabled    bool
	CSRFKey        string
	AuthEnforce    bool
	CORSOrigins    []string
	CurrencySymbol string
	SeedDataDir    string
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	env := ENV{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("APP_PORT", "8000"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "smartmart"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBLogLevel:     strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		DBMaxRetries:   getEnvInt("DB_MAX_RETRIES", 10),
		SecretKey:      getEnv("SECRET_KEY", insecureSecretKey),
		SessionEncKey:  os.Getenv("SESSION_ENC_KEY"),
		CSRFEnabled:    getEnvBool("CSRF_ENABLED", false),
		CSRFKey:        os.Getenv("CSRF_KEY"),
		AuthEnforce:    getEnvBool("AUTH_ENFORCE", false),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "R$ "),
		SeedDataDir:    getEnv("SEED_DATA_DIR", "data"),
	}

	if env.SecretKey == insecureSecretKey {
		log.Println("Warning: SECRET_KEY is not set, using the insecure default. Run `generate-keys` for production.")
	}
	return env
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not a boolean, using %t", key, raw, fallback)
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
