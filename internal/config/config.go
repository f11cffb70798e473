package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Secrets (JWT signing key, SMTP credentials) are
// never defaulted: startup fails loudly when they are missing so that a
// misconfigured deploy cannot silently fall back to a known signing key.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	BaseURL    string // public base URL used to build verification links
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign session JWTs
	BcryptCost int    // bcrypt cost for password hashing
	AvatarDir  string // directory where processed avatars are stored
	SMTP       SMTPConfig
}

// SMTPConfig carries outbound mail settings consumed by the mailer worker.
type SMTPConfig struct {
	Host string
	Port string
	User string // optional; empty disables SMTP auth
	Pass string
	From string
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		BaseURL:    getenv("APP_BASE_URL", "http://localhost:3000"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: mustInt("BCRYPT_COST"),
		AvatarDir:  getenv("AVATAR_DIR", "public/avatars"),
		SMTP:       LoadSMTP(),
	}
}

// LoadSMTP reads only the outbound mail settings. Used by the mailer
// worker, which has no need for database or signing configuration.
func LoadSMTP() SMTPConfig {
	return SMTPConfig{
		Host: getenv("SMTP_HOST", "localhost"),
		Port: getenv("SMTP_PORT", "1025"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: getenv("SMTP_FROM", "no-reply@contacts.local"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
