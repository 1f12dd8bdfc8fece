package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string

	// APIKey is the static shared secret required on every API request.
	APIKey string

	// PlatformDomain is the parent domain under which sites are created,
	// e.g. "sites.example.com" yields https://{subdomain}.sites.example.com.
	PlatformDomain string
	// WebRoot is the directory holding one subdirectory per provisioned site.
	WebRoot string
	// ScriptsDir holds the provisioning step programs, resolved by name.
	ScriptsDir string
	// ScriptsSudo runs step programs through sudo. The step programs need
	// root to create system users and vhosts.
	ScriptsSudo bool

	UploadDir      string
	MaxUploadBytes int64

	MailBaseURL    string
	MailAdminToken string
	MailFrom       string

	// NotifyInProgress enables the in-progress notification at job start.
	NotifyInProgress bool

	// MaxConcurrentJobs caps simultaneously running pipelines. Zero means
	// no cap.
	MaxConcurrentJobs int

	// DatabaseURL enables the append-only job journal when set.
	DatabaseURL string

	// Artifact store for step transcripts, enabled when endpoint, bucket,
	// and access key are all set.
	ArtifactEndpoint  string
	ArtifactBucket    string
	ArtifactAccessKey string
	ArtifactSecretKey string
}

func Load() (*Config, error) {
	maxUpload, err := getEnvInt64("MAX_UPLOAD_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	maxJobs, err := getEnvInt("MAX_CONCURRENT_JOBS", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8095"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", "provision-api"),
		APIKey:            getEnv("API_KEY", ""),
		PlatformDomain:    getEnv("PLATFORM_DOMAIN", ""),
		WebRoot:           getEnv("WEB_ROOT", "/var/www"),
		ScriptsDir:        getEnv("SCRIPTS_DIR", "/usr/local/lib/siteprovision/scripts"),
		ScriptsSudo:       getEnvBool("SCRIPTS_SUDO", true),
		UploadDir:         getEnv("UPLOAD_DIR", os.TempDir()),
		MaxUploadBytes:    maxUpload,
		MailBaseURL:       getEnv("MAIL_BASE_URL", ""),
		MailAdminToken:    getEnv("MAIL_ADMIN_TOKEN", ""),
		MailFrom:          getEnv("MAIL_FROM", ""),
		NotifyInProgress:  getEnvBool("NOTIFY_IN_PROGRESS", false),
		MaxConcurrentJobs: maxJobs,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		ArtifactEndpoint:  getEnv("ARTIFACT_ENDPOINT", ""),
		ArtifactBucket:    getEnv("ARTIFACT_BUCKET", ""),
		ArtifactAccessKey: getEnv("ARTIFACT_ACCESS_KEY", ""),
		ArtifactSecretKey: getEnv("ARTIFACT_SECRET_KEY", ""),
	}

	return cfg, nil
}

// Validate checks that everything the provisioning pipeline depends on is set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.PlatformDomain == "" {
		return fmt.Errorf("PLATFORM_DOMAIN is required")
	}
	if c.WebRoot == "" {
		return fmt.Errorf("WEB_ROOT is required")
	}
	if c.ScriptsDir == "" {
		return fmt.Errorf("SCRIPTS_DIR is required")
	}
	if c.MailBaseURL == "" {
		return fmt.Errorf("MAIL_BASE_URL is required")
	}
	if c.MailFrom == "" {
		return fmt.Errorf("MAIL_FROM is required")
	}
	return nil
}

// ArtifactsEnabled reports whether a step-transcript artifact store is configured.
func (c *Config) ArtifactsEnabled() bool {
	return c.ArtifactEndpoint != "" && c.ArtifactBucket != "" && c.ArtifactAccessKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
