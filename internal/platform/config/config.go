package config

import (
	"log"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	// Interaction sessions (chat conversations awaiting a reply)
	RedisURL             string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Ledger behaviour
	ApprovalPolicy domain.ApprovalPolicy
	CurrencySymbol string

	// Chat and receipt scanning
	DiscordBotToken             string  `mapstructure:"DISCORD_BOT_TOKEN"`
	GoogleVisionCredentialsFile string  `mapstructure:"GOOGLE_VISION_CREDENTIALS_FILE"`
	ReceiptMinConfidence        float64 `mapstructure:"RECEIPT_MIN_CONFIDENCE"`

	RateLimit       string `mapstructure:"RATE_LIMIT"`
	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "splitledger")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SESSION_TTL", "30m")
	viper.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
	viper.SetDefault("APPROVAL_POLICY", string(domain.ApprovalMajority))
	viper.SetDefault("CURRENCY_SYMBOL", "₹")
	viper.SetDefault("DISCORD_BOT_TOKEN", "")
	viper.SetDefault("GOOGLE_VISION_CREDENTIALS_FILE", "")
	viper.SetDefault("RECEIPT_MIN_CONFIDENCE", 70)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.SessionTTL = durationOrDefault("SESSION_TTL", 30*time.Minute)
	cfg.SessionSweepInterval = durationOrDefault("SESSION_SWEEP_INTERVAL", time.Minute)

	policy, err := domain.ParseApprovalPolicy(viper.GetString("APPROVAL_POLICY"))
	if err != nil {
		return nil, err
	}
	cfg.ApprovalPolicy = policy

	cfg.ReceiptMinConfidence = viper.GetFloat64("RECEIPT_MIN_CONFIDENCE")
	if cfg.ReceiptMinConfidence < 0 || cfg.ReceiptMinConfidence > 100 {
		log.Printf("Warning: RECEIPT_MIN_CONFIDENCE ('%v') outside 0-100. Defaulting to 70.\n", cfg.ReceiptMinConfidence)
		cfg.ReceiptMinConfidence = 70
	}

	cfg.DiscordBotToken = viper.GetString("DISCORD_BOT_TOKEN")
	if cfg.DiscordBotToken == "" {
		log.Println("Warning: DISCORD_BOT_TOKEN not set. The chat bot will not start.")
	}
	cfg.GoogleVisionCredentialsFile = viper.GetString("GOOGLE_VISION_CREDENTIALS_FILE")
	if cfg.GoogleVisionCredentialsFile == "" {
		log.Println("Warning: GOOGLE_VISION_CREDENTIALS_FILE not set. Receipts fall back to manual entry.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.CurrencySymbol = viper.GetString("CURRENCY_SYMBOL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
