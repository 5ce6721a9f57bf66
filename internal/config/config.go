package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nholding/kundli-view/internal/repository"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "KUNDLI"

// LogConfig configures internal/logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// HTTPConfig configures `kundli serve`.
type HTTPConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AWSConfig is shared by the archive and the exporter.
type AWSConfig struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

// ArchiveConfig configures the Postgres chart archive.
type ArchiveConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DBInstanceID string `mapstructure:"db_instance_id"`
	DBEndpoint   string `mapstructure:"db_endpoint"`
	DBUser       string `mapstructure:"db_user"`
	DBName       string `mapstructure:"db_name"`
	DBPort       int    `mapstructure:"db_port"`
}

// ExportConfig configures report uploads.
type ExportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
}

// Config holds all runtime configuration.
// Values are populated from .kundli.yaml, .env, KUNDLI_* env vars and CLI flags.
type Config struct {
	EnginePath    string        `mapstructure:"engine_path"`
	EngineTimeout time.Duration `mapstructure:"engine_timeout"`
	Log           LogConfig     `mapstructure:"log"`
	HTTP          HTTPConfig    `mapstructure:"http"`
	AWS           AWSConfig     `mapstructure:"aws"`
	Archive       ArchiveConfig `mapstructure:"archive"`
	Export        ExportConfig  `mapstructure:"export"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. Nested keys map to
// env vars with dots replaced by underscores: archive.enabled is
// KUNDLI_ARCHIVE_ENABLED.
func Load() (Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("engine_path", "kundli-engine")
	viper.SetDefault("engine_timeout", "60s")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.allowed_origins", []string{"*"})
	viper.SetDefault("aws.profile", "")
	viper.SetDefault("aws.region", "eu-central-1")
	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.db_instance_id", "")
	viper.SetDefault("archive.db_endpoint", "")
	viper.SetDefault("archive.db_user", "kundli")
	viper.SetDefault("archive.db_name", "kundli")
	viper.SetDefault("archive.db_port", 5432)
	viper.SetDefault("export.enabled", false)
	viper.SetDefault("export.bucket", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate collects every configuration problem into one error.
func (c Config) Validate() error {
	var errs []error

	if c.EnginePath == "" {
		errs = append(errs, errors.New("engine_path must be set"))
	}
	if c.EngineTimeout <= 0 {
		errs = append(errs, fmt.Errorf("engine_timeout must be positive, got %s", c.EngineTimeout))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}

	if c.Archive.Enabled {
		if c.Archive.DBEndpoint == "" && c.Archive.DBInstanceID == "" {
			errs = append(errs, errors.New("archive.db_endpoint or archive.db_instance_id must be set when the archive is enabled"))
		}
		if c.Archive.DBUser == "" || c.Archive.DBName == "" {
			errs = append(errs, errors.New("archive.db_user and archive.db_name must be set when the archive is enabled"))
		}
	}
	if c.Export.Enabled && c.Export.Bucket == "" {
		errs = append(errs, errors.New("export.bucket must be set when export is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Repository returns the AWS client configuration for the archive and the
// exporter.
func (c Config) Repository() *repository.Config {
	return &repository.Config{
		Profile:      c.AWS.Profile,
		Region:       c.AWS.Region,
		S3BucketName: c.Export.Bucket,
		DBInstanceID: c.Archive.DBInstanceID,
		DBEndpoint:   c.Archive.DBEndpoint,
		DBUser:       c.Archive.DBUser,
		DBName:       c.Archive.DBName,
		DBPort:       c.Archive.DBPort,
	}
}
