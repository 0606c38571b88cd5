package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string
	LogLevel       string

	// Supabase/hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Supabase SupabaseConfig

	// AllowedOrigins is a comma-separated allowlist of browser origins for the web app.
	// Example:
	//   https://timeshareconnect.app,http://localhost:3000
	AllowedOrigins []string

	Feedback FeedbackConfig
	Pricing  PricingConfig

	// RedisURL enables the hotel pricing cache when set (host:port).
	RedisURL string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type SupabaseConfig struct {
	// JWTSecret signs the access tokens issued by Supabase Auth (HS256).
	JWTSecret string
	// Audience is the expected "aud" claim; Supabase uses "authenticated".
	Audience string
}

type FeedbackConfig struct {
	SendGridAPIKey string
	FromEmail      string
	AdminEmail     string
}

// Configured reports whether every value needed to relay feedback mail is present.
func (c FeedbackConfig) Configured() bool {
	return c.SendGridAPIKey != "" && c.FromEmail != "" && c.AdminEmail != ""
}

type PricingConfig struct {
	SerpAPIKey string
	BaseURL    string
	CacheTTL   time.Duration
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	adminEmail := os.Getenv("ADMIN_CONTACT_EMAIL")
	if adminEmail == "" {
		adminEmail = os.Getenv("NEXT_PUBLIC_ADMIN_CONTACT_EMAIL")
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		LogLevel:       env("LOG_LEVEL", "info"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "timeshare"),
			User:     env("DB_USER", "timeshare"),
			Password: env("DB_PASSWORD", "timeshare"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Supabase: SupabaseConfig{
			JWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
			Audience:  env("SUPABASE_JWT_AUDIENCE", "authenticated"),
		},
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:3000"),
		Feedback: FeedbackConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      os.Getenv("FEEDBACK_FROM_EMAIL"),
			AdminEmail:     adminEmail,
		},
		Pricing: PricingConfig{
			SerpAPIKey: os.Getenv("SERPAPI_API_KEY"),
			BaseURL:    env("SERPAPI_BASE_URL", "https://serpapi.com"),
			CacheTTL:   envDuration("PRICING_CACHE_TTL", 6*time.Hour),
		},
		RedisURL: os.Getenv("REDIS_URL"),
	}
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
