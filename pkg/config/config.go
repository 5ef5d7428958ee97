package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Cache        CacheConfig
	Selection    SelectionConfig
	Certificates CertificatesConfig
	CovidFeed    CovidFeedConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs response caching for the dashboard summary.
type CacheConfig struct {
	Enabled    bool
	SummaryTTL time.Duration
}

// SelectionConfig tunes the deployment candidate wizard.
type SelectionConfig struct {
	DefaultDurationDays int
}

// CertificatesConfig controls training certificate storage.
type CertificatesConfig struct {
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// CovidFeedConfig configures the disease.sh snapshot sync.
type CovidFeedConfig struct {
	Enabled  bool
	BaseURL  string
	Country  string
	Interval time.Duration
	Timeout  time.Duration
	Workers  int
	Retries  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_CACHE"),
		SummaryTTL: parseDuration(v.GetString("SUMMARY_CACHE_TTL"), 5*time.Minute),
	}

	defaultDuration := v.GetInt("SELECTION_DEFAULT_DURATION_DAYS")
	if defaultDuration <= 0 || defaultDuration > 365 {
		defaultDuration = 30
	}
	cfg.Selection = SelectionConfig{DefaultDurationDays: defaultDuration}

	maxCertSize := v.GetInt64("CERTIFICATES_MAX_FILE_SIZE")
	if maxCertSize <= 0 {
		maxCertSize = 5 * 1024 * 1024
	}
	cfg.Certificates = CertificatesConfig{
		StorageDir:       v.GetString("CERTIFICATES_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("CERTIFICATES_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("CERTIFICATES_SIGNED_URL_TTL"), 30*time.Minute),
		MaxFileSizeBytes: maxCertSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("CERTIFICATES_ALLOWED_MIME_TYPES")),
	}

	cfg.CovidFeed = CovidFeedConfig{
		Enabled:  v.GetBool("ENABLE_COVID_FEED"),
		BaseURL:  v.GetString("COVID_FEED_BASE_URL"),
		Country:  v.GetString("COVID_FEED_COUNTRY"),
		Interval: parseDuration(v.GetString("COVID_FEED_INTERVAL"), 6*time.Hour),
		Timeout:  parseDuration(v.GetString("COVID_FEED_TIMEOUT"), 15*time.Second),
		Workers:  v.GetInt("COVID_FEED_WORKERS"),
		Retries:  v.GetInt("COVID_FEED_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hcw_registry")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("SUMMARY_CACHE_TTL", "5m")
	v.SetDefault("SELECTION_DEFAULT_DURATION_DAYS", 30)

	v.SetDefault("CERTIFICATES_STORAGE_DIR", "./certificates")
	v.SetDefault("CERTIFICATES_SIGNED_URL_SECRET", "dev_certificates_secret")
	v.SetDefault("CERTIFICATES_SIGNED_URL_TTL", "30m")
	v.SetDefault("CERTIFICATES_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("CERTIFICATES_ALLOWED_MIME_TYPES", "application/pdf,image/png,image/jpeg")

	v.SetDefault("ENABLE_COVID_FEED", false)
	v.SetDefault("COVID_FEED_BASE_URL", "https://disease.sh")
	v.SetDefault("COVID_FEED_COUNTRY", "Malawi")
	v.SetDefault("COVID_FEED_INTERVAL", "6h")
	v.SetDefault("COVID_FEED_TIMEOUT", "15s")
	v.SetDefault("COVID_FEED_WORKERS", 1)
	v.SetDefault("COVID_FEED_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
