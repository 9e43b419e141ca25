package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Google   GoogleOAuthConfig
	Org      OrgConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	// WebAPIKey is the browser API key used for the Identity Toolkit
	// password sign-in endpoint (the Admin SDK has no password grant).
	WebAPIKey string
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type OrgConfig struct {
	// EmailDomain is the suffix every account must carry, e.g. "sioxglobal.com".
	EmailDomain string
	// Companies are the UI labels offered in the directory editor.
	Companies []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type AppConfig struct {
	Environment string
	Version     string
	SessionTTL  time.Duration
	// Page targets handed back to the browser on redirects.
	LoginPath       string
	VerifyEmailPath string
	DashboardPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
		},
		Google: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_OAUTH_REDIRECT_URL", ""),
		},
		Org: OrgConfig{
			EmailDomain: getEnv("ORG_EMAIL_DOMAIN", "sioxglobal.com"),
			Companies:   getEnvAsList("COMPANY_OPTIONS", []string{"Siox Global", "Rank Me Now", "Choksi Hotels"}),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Siox Global"),
		},
		App: AppConfig{
			Environment:     getEnv("APP_ENV", "development"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			SessionTTL:      getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			LoginPath:       getEnv("LOGIN_PATH", "/login/login.html"),
			VerifyEmailPath: getEnv("VERIFY_EMAIL_PATH", "/verify-email/verify-email.html"),
			DashboardPath:   getEnv("DASHBOARD_PATH", "/dashboard/index.html"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	if c.Firebase.WebAPIKey == "" {
		return fmt.Errorf("FIREBASE_WEB_API_KEY is required")
	}

	if c.Org.EmailDomain == "" {
		return fmt.Errorf("ORG_EMAIL_DOMAIN is required")
	}

	if len(c.Org.Companies) == 0 {
		return fmt.Errorf("COMPANY_OPTIONS must list at least one company")
	}

	// Firebase bounds session cookie lifetimes to 5 minutes..14 days.
	if c.App.SessionTTL < 5*time.Minute || c.App.SessionTTL > 14*24*time.Hour {
		return fmt.Errorf("SESSION_TTL must be between 5m and 336h")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
