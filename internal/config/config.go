// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the gorm driver and its connection string.
// Driver is "sqlite" (Path is used) or "postgres" (DSN is used).
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Path   string `mapstructure:"path"`
	Debug  bool   `mapstructure:"debug"`
}

// StorageConfig holds attachment and export locations.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	UploadDir string `mapstructure:"upload_dir"`
	ExportDir string `mapstructure:"export_dir"`
}

// MinIOConfig is used when Storage.Backend is "minio".
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// RedisConfig is optional; an empty Addr keeps pending selections in memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev             bool          `mapstructure:"dev"`
	Migrations      bool          `mapstructure:"migrations"`
	Seed            bool          `mapstructure:"seed"`
	SessionSecret   string        `mapstructure:"session_secret"`
	PendingTTL      time.Duration `mapstructure:"pending_ttl"`
	OfferDefaultQty int           `mapstructure:"offer_default_qty"`
}

var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":     "SERVER_IDLE_TIMEOUT",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"database.driver":         "DB_DRIVER",
	"database.dsn":            "DB_DSN",
	"database.path":           "DB_PATH",
	"database.debug":          "DB_DEBUG",
	"storage.backend":         "STORAGE_BACKEND",
	"storage.upload_dir":      "UPLOAD_DIR",
	"storage.export_dir":      "EXPORT_DIR",
	"minio.endpoint":          "MINIO_ENDPOINT",
	"minio.access_key":        "MINIO_ACCESS_KEY",
	"minio.secret_key":        "MINIO_SECRET_KEY",
	"minio.bucket":            "MINIO_BUCKET",
	"minio.use_ssl":           "MINIO_USE_SSL",
	"redis.addr":              "REDIS_ADDR",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"log.level":               "LOG_LEVEL",
	"log.format":              "LOG_FORMAT",
	"app.dev":                 "DEV",
	"app.migrations":          "MIGRATIONS",
	"app.seed":                "DB_SEED",
	"app.session_secret":      "SESSION_SECRET",
	"app.pending_ttl":         "PENDING_TTL",
	"app.offer_default_qty":   "OFFER_DEFAULT_QTY",
}

// Load reads configuration from environment variables and an optional
// config.yaml in ./configs or the working directory.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/blachy.db")
	v.SetDefault("database.dsn", "host=localhost port=5432 user=blachy password=blachy dbname=blachy sslmode=disable")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.export_dir", "exports")
	v.SetDefault("minio.bucket", "blachy")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("app.dev", false)
	v.SetDefault("app.migrations", true)
	v.SetDefault("app.seed", true)
	v.SetDefault("app.session_secret", "devsessionsecret")
	v.SetDefault("app.pending_ttl", 2*time.Hour)
	v.SetDefault("app.offer_default_qty", 1)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case "local":
	case "minio":
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("STORAGE_BACKEND=minio requires MINIO_ENDPOINT")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.App.OfferDefaultQty < 0 {
		return fmt.Errorf("OFFER_DEFAULT_QTY must not be negative")
	}
	return nil
}
