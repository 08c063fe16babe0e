package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	AuthJWKSURL        string        `mapstructure:"AUTH_JWKS_URL"`
	LoginURL           string        `mapstructure:"LOGIN_URL"`
	SessionCookie      string        `mapstructure:"SESSION_COOKIE"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	MinioEndpoint      string        `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey     string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey     string        `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL        bool          `mapstructure:"MINIO_USE_SSL"`
	ExportBucket       string        `mapstructure:"EXPORT_BUCKET"`
	ExportRetention    time.Duration `mapstructure:"EXPORT_RETENTION"`
	ArchiveConcurrency int           `mapstructure:"ARCHIVE_CONCURRENCY"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"JWT_SECRET", "AUTH_JWKS_URL", "LOGIN_URL", "SESSION_COOKIE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL",
	"EXPORT_BUCKET", "EXPORT_RETENTION", "ARCHIVE_CONCURRENCY",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("LOGIN_URL", "/accounts/login/")
	v.SetDefault("SESSION_COOKIE", "hub_session")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("EXPORT_BUCKET", "patient-records-exports")
	v.SetDefault("EXPORT_RETENTION", "720h")
	v.SetDefault("ARCHIVE_CONCURRENCY", 2)

	// Unmarshal only sees env vars that were bound explicitly.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ArchiveEnabled reports whether exports can be copied to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.MinioEndpoint != ""
}

// Validate refuses to run outside development without a way to verify
// session tokens.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" && c.AuthJWKSURL == "" {
		return fmt.Errorf("JWT_SECRET or AUTH_JWKS_URL must be set when ENV=%q", c.Env)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.ArchiveEnabled() && c.ExportBucket == "" {
		return fmt.Errorf("EXPORT_BUCKET is required when MINIO_ENDPOINT is set")
	}
	return nil
}
