package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env        string           `mapstructure:"env"`
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"database"`
	CORS       CORSConfig       `mapstructure:"cors"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Submission SubmissionConfig `mapstructure:"submission"`
	Cleanup    CleanupConfig    `mapstructure:"cleanup"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	PublicURL       string        `mapstructure:"public_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig holds database specific configuration
type DBConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// CORSConfig holds CORS specific configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
}

// RedisConfig holds the connection settings of the upload ticket store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig describes the S3 compatible bucket that holds uploaded files.
type StorageConfig struct {
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	Endpoint        string        `mapstructure:"endpoint"`
	UsePathStyle    bool          `mapstructure:"use_path_style"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
	UploadTicketTTL time.Duration `mapstructure:"upload_ticket_ttl"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// SubmissionConfig controls server-side checks on submitted applications.
type SubmissionConfig struct {
	StrictValidation bool `mapstructure:"strict_validation"`
}

// CleanupConfig drives the background reconciler.
type CleanupConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Interval        time.Duration `mapstructure:"interval"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	OrphanUploadAge time.Duration `mapstructure:"orphan_upload_age"`
	BatchSize       int           `mapstructure:"batch_size"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load configuration from .env, config file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("config file not found, using defaults and environment variables")
		} else {
			return nil, err
		}
	}

	v.SetEnvPrefix("API") // e.g. API_STORAGE_BUCKET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without defaults are invisible to Unmarshal unless bound
	for _, key := range []string{"jwt.secret", "redis.password", "storage.access_key_id", "storage.secret_access_key", "storage.endpoint", "log.sentry_dsn"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret must be set (API_JWT_SECRET or JWT_SECRET)")
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"port", cfg.Server.Port,
		"db_host", cfg.DB.Host,
		"bucket", cfg.Storage.Bucket,
		"allowed_origins", cfg.CORS.AllowedOrigins,
	)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "job_board")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("jwt.issuer", "job-board-api")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "job-board-uploads")
	v.SetDefault("storage.key_prefix", "uploads/")
	v.SetDefault("storage.presign_expiry", 15*time.Minute)
	v.SetDefault("storage.upload_ticket_ttl", 10*time.Minute)
	v.SetDefault("storage.max_upload_bytes", 10<<20)

	v.SetDefault("submission.strict_validation", false)

	v.SetDefault("cleanup.enabled", true)
	v.SetDefault("cleanup.interval", 5*time.Minute)
	v.SetDefault("cleanup.max_attempts", 8)
	v.SetDefault("cleanup.orphan_upload_age", 24*time.Hour)
	v.SetDefault("cleanup.batch_size", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// applyEnvOverrides lets the conventional unprefixed variables win over everything else.
func applyEnvOverrides(cfg *Config) {
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.DB.Port = port
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.DB.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		cfg.Log.SentryDSN = dsn
	}

	// comma-separated list
	if originsStr := os.Getenv("CORS_ALLOWED_ORIGINS"); originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		cfg.CORS.AllowedOrigins = origins
	}
}
