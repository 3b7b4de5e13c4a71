package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Rate limiter counter backends.
const (
	RateLimitBackendPostgres = "postgres"
	RateLimitBackendRedis    = "redis"
)

// Blob storage drivers.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	Env           string
	Port          int
	APIPrefix     string
	PublicBaseURL string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	APIKeys   APIKeyConfig
	Storage   StorageConfig
	Uploads   UploadConfig
	Shares    ShareConfig
	Blobs     BlobConfig
	Metrics   MetricsConfig
	Docs      DocsConfig
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
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedHeaders []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig governs the per-key minute/hour quotas.
type RateLimitConfig struct {
	Backend          string
	PerMinute        int
	PerHour          int
	Retention        time.Duration
	PurgeProbability float64
}

// APIKeyConfig lists the bearer token prefixes accepted by the guard.
type APIKeyConfig struct {
	Prefix         string
	LegacyPrefixes []string
}

// AcceptedPrefixes returns the current prefix followed by the legacy ones.
func (c APIKeyConfig) AcceptedPrefixes() []string {
	prefixes := make([]string, 0, len(c.LegacyPrefixes)+1)
	if c.Prefix != "" {
		prefixes = append(prefixes, c.Prefix)
	}
	return append(prefixes, c.LegacyPrefixes...)
}

// StorageConfig selects the blob store for uploaded files.
type StorageConfig struct {
	Driver   string
	LocalDir string
	S3Bucket string
	S3Prefix string
}

// UploadConfig bounds file uploads.
type UploadConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// ShareConfig tunes listing and housekeeping.
type ShareConfig struct {
	ListLimit      int
	ReaperInterval time.Duration
}

// BlobConfig sizes the background blob deletion queue.
type BlobConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type DocsConfig struct {
	Enabled bool
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")

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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedHeaders: splitAndTrim(v.GetString("CORS_ALLOWED_HEADERS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RateLimit = RateLimitConfig{
		Backend:          strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
		PerMinute:        positiveInt(v.GetInt("RATE_LIMIT_PER_MINUTE"), 60),
		PerHour:          positiveInt(v.GetInt("RATE_LIMIT_PER_HOUR"), 1000),
		Retention:        parseDuration(v.GetString("RATE_LIMIT_RETENTION"), 2*time.Hour),
		PurgeProbability: v.GetFloat64("RATE_LIMIT_PURGE_PROBABILITY"),
	}

	cfg.APIKeys = APIKeyConfig{
		Prefix:         strings.TrimSpace(v.GetString("API_KEY_PREFIX")),
		LegacyPrefixes: splitAndTrim(v.GetString("API_KEY_LEGACY_PREFIXES")),
	}

	cfg.Storage = StorageConfig{
		Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		LocalDir: v.GetString("STORAGE_LOCAL_DIR"),
		S3Bucket: v.GetString("S3_BUCKET"),
		S3Prefix: v.GetString("S3_PREFIX"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadConfig{
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOAD_ALLOWED_MIME_TYPES")),
	}

	cfg.Shares = ShareConfig{
		ListLimit:      positiveInt(v.GetInt("SHARE_LIST_LIMIT"), 100),
		ReaperInterval: parseDuration(v.GetString("REAPER_INTERVAL"), 0),
	}

	cfg.Blobs = BlobConfig{
		Workers:    v.GetInt("BLOB_WORKERS"),
		BufferSize: v.GetInt("BLOB_QUEUE_SIZE"),
		MaxRetries: v.GetInt("BLOB_RETRIES"),
		RetryDelay: parseDuration(v.GetString("BLOB_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Docs = DocsConfig{Enabled: v.GetBool("ENABLE_DOCS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sharebin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Requested-With,X-Request-ID")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitBackendPostgres)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("RATE_LIMIT_PER_HOUR", 1000)
	v.SetDefault("RATE_LIMIT_RETENTION", "2h")
	v.SetDefault("RATE_LIMIT_PURGE_PROBABILITY", 0.01)

	v.SetDefault("API_KEY_PREFIX", "sb")
	v.SetDefault("API_KEY_LEGACY_PREFIXES", "pb")

	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "")

	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("UPLOAD_ALLOWED_MIME_TYPES", "")

	v.SetDefault("SHARE_LIST_LIMIT", 100)
	v.SetDefault("REAPER_INTERVAL", "0")

	v.SetDefault("BLOB_WORKERS", 2)
	v.SetDefault("BLOB_QUEUE_SIZE", 256)
	v.SetDefault("BLOB_RETRIES", 3)
	v.SetDefault("BLOB_RETRY_DELAY", "5s")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_DOCS", false)
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

func positiveInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
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
