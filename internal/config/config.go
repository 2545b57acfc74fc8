package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Rewards  RewardsConfig
	Sessions SessionsConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	AdminKey     string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RewardsConfig holds the coin amounts credited by each reward operation.
type RewardsConfig struct {
	SignupBonus    int64 // coins granted on first profile creation
	ReferralBonus  int64 // coins granted to the referrer
	ReferredBonus  int64 // coins granted to the newly referred device
	ReviewBonus    int64
	ShareBonus     int64
	CodeMaxRetries int
}

type SessionsConfig struct {
	// A session with no end older than GraceWindow whose account has been
	// inactive longer than InactiveWindow is eligible for auto-close.
	GraceWindow    time.Duration
	InactiveWindow time.Duration
	SweepInterval  time.Duration
}

type CacheConfig struct {
	AccountTTL time.Duration
	CatalogTTL time.Duration
	PaymentTTL time.Duration
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AdminKey:     getEnv("ADMIN_KEY", "change-me-in-production"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "coinledger"),
			Password: getEnv("DB_PASSWORD", "coinledger"),
			Name:     getEnv("DB_NAME", "coinledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Rewards: RewardsConfig{
			SignupBonus:    getEnvInt64("REWARD_SIGNUP_BONUS", 5),
			ReferralBonus:  getEnvInt64("REWARD_REFERRAL_BONUS", 10),
			ReferredBonus:  getEnvInt64("REWARD_REFERRED_BONUS", 0),
			ReviewBonus:    getEnvInt64("REWARD_REVIEW_BONUS", 50),
			ShareBonus:     getEnvInt64("REWARD_SHARE_BONUS", 10),
			CodeMaxRetries: int(getEnvInt64("REFERRAL_CODE_MAX_RETRIES", 5)),
		},
		Sessions: SessionsConfig{
			GraceWindow:    getEnvDuration("SESSION_GRACE_WINDOW", 2*time.Minute),
			InactiveWindow: getEnvDuration("SESSION_INACTIVE_WINDOW", 5*time.Minute),
			SweepInterval:  getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Cache: CacheConfig{
			AccountTTL: getEnvDuration("CACHE_ACCOUNT_TTL", time.Hour),
			CatalogTTL: getEnvDuration("CACHE_CATALOG_TTL", time.Hour),
			PaymentTTL: getEnvDuration("CACHE_PAYMENT_TTL", 24*time.Hour),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Fallback pricing used when no premium plan row is configured. Pricing
// lookups must never fail.
const (
	FallbackPlanName     = "Premium"
	FallbackPlanPrice    = 49
	FallbackPlanDuration = 30
)
