package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "kundli-engine", cfg.EnginePath)
	assert.Equal(t, 60*time.Second, cfg.EngineTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "eu-central-1", cfg.AWS.Region)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, 5432, cfg.Archive.DBPort)
	assert.False(t, cfg.Export.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("KUNDLI_ENGINE_PATH", "/opt/kundli/engine")
	t.Setenv("KUNDLI_ENGINE_TIMEOUT", "5s")
	t.Setenv("KUNDLI_LOG_LEVEL", "debug")
	t.Setenv("KUNDLI_HTTP_PORT", "9090")
	t.Setenv("KUNDLI_ARCHIVE_ENABLED", "true")
	t.Setenv("KUNDLI_ARCHIVE_DB_INSTANCE_ID", "kundli-archive")
	t.Setenv("KUNDLI_EXPORT_ENABLED", "true")
	t.Setenv("KUNDLI_EXPORT_BUCKET", "kundli-reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/kundli/engine", cfg.EnginePath)
	assert.Equal(t, 5*time.Second, cfg.EngineTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "kundli-archive", cfg.Archive.DBInstanceID)
	assert.True(t, cfg.Export.Enabled)
	assert.Equal(t, "kundli-reports", cfg.Export.Bucket)
}

func TestLoad_InvalidFromEnv(t *testing.T) {
	resetViper(t)
	t.Setenv("KUNDLI_EXPORT_ENABLED", "true")

	_, err := Load()
	assert.ErrorContains(t, err, "export.bucket")
}

func TestValidate(t *testing.T) {
	valid := Config{
		EnginePath:    "kundli-engine",
		EngineTimeout: time.Minute,
		Log:           LogConfig{Level: "info"},
		HTTP:          HTTPConfig{Port: 8080},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no engine", func(c *Config) { c.EnginePath = "" }, "engine_path"},
		{"zero timeout", func(c *Config) { c.EngineTimeout = 0 }, "engine_timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"archive without db", func(c *Config) { c.Archive = ArchiveConfig{Enabled: true, DBUser: "u", DBName: "n"} }, "db_instance_id"},
		{"archive without user", func(c *Config) { c.Archive = ArchiveConfig{Enabled: true, DBEndpoint: "db"} }, "db_user"},
		{"export without bucket", func(c *Config) { c.Export.Enabled = true }, "export.bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestRepository(t *testing.T) {
	c := Config{
		AWS:     AWSConfig{Profile: "dev", Region: "eu-west-1"},
		Archive: ArchiveConfig{DBInstanceID: "kundli-archive", DBUser: "kundli", DBName: "charts", DBPort: 5432},
		Export:  ExportConfig{Bucket: "kundli-reports"},
	}

	r := c.Repository()

	assert.Equal(t, "dev", r.Profile)
	assert.Equal(t, "eu-west-1", r.Region)
	assert.Equal(t, "kundli-reports", r.S3BucketName)
	assert.Equal(t, "kundli-archive", r.DBInstanceID)
	assert.Equal(t, "charts", r.DBName)
	assert.Equal(t, 5432, r.DBPort)
}
