package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string // empty accepts any issuer

	// Rate providers, tried in order.
	RatesPrimaryName    string
	RatesPrimaryURL     string
	RatesSecondaryName  string
	RatesSecondaryURL   string
	RatesFetchTimeout   time.Duration
	RatesFetchInterval  time.Duration // 0 disables the scheduler
	RatesAutoRecalc     bool
	RatesFetchOnStartup bool

	// Recalculation
	RecalcWorkers int
	RecalcLockTTL time.Duration
	RedisURL      string // empty selects the in-process job lock

	PublicRateLimit    string // ulule formatted, e.g. "60-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "pricing-admin-backend")
	viper.SetDefault("RATES_PRIMARY_NAME", "primary")
	viper.SetDefault("RATES_PRIMARY_URL", "")
	viper.SetDefault("RATES_SECONDARY_NAME", "secondary")
	viper.SetDefault("RATES_SECONDARY_URL", "")
	viper.SetDefault("RATES_FETCH_TIMEOUT", "10s")
	viper.SetDefault("RATES_FETCH_INTERVAL", "0")
	viper.SetDefault("RATES_AUTO_RECALCULATE", false)
	viper.SetDefault("RATES_FETCH_ON_STARTUP", false)
	viper.SetDefault("RECALC_WORKERS", 4)
	viper.SetDefault("RECALC_LOCK_TTL", "15m")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("PUBLIC_RATE_LIMIT", "60-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.RatesPrimaryName = viper.GetString("RATES_PRIMARY_NAME")
	cfg.RatesPrimaryURL = viper.GetString("RATES_PRIMARY_URL")
	cfg.RatesSecondaryName = viper.GetString("RATES_SECONDARY_NAME")
	cfg.RatesSecondaryURL = viper.GetString("RATES_SECONDARY_URL")
	if cfg.RatesPrimaryURL == "" && cfg.RatesSecondaryURL == "" {
		log.Println("Warning: no RATES_*_URL configured. Rate fetches will fail until one is set.")
	}
	cfg.RatesFetchTimeout = durationOr("RATES_FETCH_TIMEOUT", 10*time.Second)
	cfg.RatesFetchInterval = durationOr("RATES_FETCH_INTERVAL", 0)
	cfg.RatesAutoRecalc = viper.GetBool("RATES_AUTO_RECALCULATE")
	cfg.RatesFetchOnStartup = viper.GetBool("RATES_FETCH_ON_STARTUP")

	cfg.RecalcWorkers = viper.GetInt("RECALC_WORKERS")
	if cfg.RecalcWorkers <= 0 {
		log.Printf("Warning: invalid RECALC_WORKERS (%d). Defaulting to 4.\n", cfg.RecalcWorkers)
		cfg.RecalcWorkers = 4
	}
	cfg.RecalcLockTTL = durationOr("RECALC_LOCK_TTL", 15*time.Minute)
	cfg.RedisURL = viper.GetString("REDIS_URL")

	cfg.PublicRateLimit = viper.GetString("PUBLIC_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	switch raw {
	case "":
		return fallback
	case "0":
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
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
