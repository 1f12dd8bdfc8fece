package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that might interfere with defaults.
	os.Unsetenv("HTTP_LISTEN_ADDR")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("WEB_ROOT")
	os.Unsetenv("SCRIPTS_SUDO")
	os.Unsetenv("MAX_CONCURRENT_JOBS")
	os.Unsetenv("NOTIFY_IN_PROGRESS")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8095", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/var/www", cfg.WebRoot)
	assert.True(t, cfg.ScriptsSudo)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 0, cfg.MaxConcurrentJobs)
	assert.False(t, cfg.NotifyInProgress)
}

func TestLoad_AllEnvVars(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":9000")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PLATFORM_DOMAIN", "sites.example.com")
	t.Setenv("WEB_ROOT", "/srv/www")
	t.Setenv("SCRIPTS_DIR", "/opt/scripts")
	t.Setenv("SCRIPTS_SUDO", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("MAX_CONCURRENT_JOBS", "4")
	t.Setenv("NOTIFY_IN_PROGRESS", "true")
	t.Setenv("MAIL_BASE_URL", "http://mail.internal:8080")
	t.Setenv("MAIL_FROM", "noreply@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPListenAddr)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "sites.example.com", cfg.PlatformDomain)
	assert.Equal(t, "/srv/www", cfg.WebRoot)
	assert.Equal(t, "/opt/scripts", cfg.ScriptsDir)
	assert.False(t, cfg.ScriptsSudo)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, 4, cfg.MaxConcurrentJobs)
	assert.True(t, cfg.NotifyInProgress)
}

func TestLoad_BadInt(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_JOBS", "many")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_CONCURRENT_JOBS")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIKey:         "secret",
			PlatformDomain: "sites.example.com",
			WebRoot:        "/var/www",
			ScriptsDir:     "/opt/scripts",
			MailBaseURL:    "http://mail.internal:8080",
			MailFrom:       "noreply@example.com",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }, "API_KEY"},
		{"missing domain", func(c *Config) { c.PlatformDomain = "" }, "PLATFORM_DOMAIN"},
		{"missing web root", func(c *Config) { c.WebRoot = "" }, "WEB_ROOT"},
		{"missing scripts dir", func(c *Config) { c.ScriptsDir = "" }, "SCRIPTS_DIR"},
		{"missing mail url", func(c *Config) { c.MailBaseURL = "" }, "MAIL_BASE_URL"},
		{"missing mail from", func(c *Config) { c.MailFrom = "" }, "MAIL_FROM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestArtifactsEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.ArtifactsEnabled())

	cfg.ArtifactEndpoint = "http://localhost:7480"
	cfg.ArtifactBucket = "provision-logs"
	assert.False(t, cfg.ArtifactsEnabled())

	cfg.ArtifactAccessKey = "key"
	assert.True(t, cfg.ArtifactsEnabled())
}
