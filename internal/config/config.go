package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string

	// CRM holds the FluentCRM REST API settings. All three are required
	// for the contact lookup and slug schema endpoints.
	CRMBaseURL  string
	CRMUsername string
	CRMPassword string

	// StorageBackend selects where generated PDFs are written: "local" or "s3".
	StorageBackend string
	StorageDir     string
	StorageBaseURL string
	S3Endpoint     string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	// PublicTokenSecret signs the rotating token required by the public
	// certificate lookup endpoint.
	PublicTokenSecret string

	// IssuerProfilePath optionally points at a YAML file overriding the
	// built-in issuer identity printed on certificates.
	IssuerProfilePath string

	// ChromeBin optionally pins the Chromium binary used for PDF rendering.
	ChromeBin string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8090"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", "certserver"),
		CRMBaseURL:        getEnv("CRM_BASE_URL", ""),
		CRMUsername:       getEnv("CRM_API_USERNAME", ""),
		CRMPassword:       getEnv("CRM_API_PASSWORD", ""),
		StorageBackend:    getEnv("STORAGE_BACKEND", "local"),
		StorageDir:        getEnv("STORAGE_DIR", "certificados"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		PublicTokenSecret: getEnv("PUBLIC_TOKEN_SECRET", ""),
		IssuerProfilePath: getEnv("ISSUER_PROFILE_PATH", ""),
		ChromeBin:         getEnv("CHROME_BIN", ""),
	}

	return cfg, nil
}

// Validate checks that the keys the server cannot run without are set.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.StorageBaseURL == "" {
		return fmt.Errorf("STORAGE_BASE_URL is required")
	}
	if c.PublicTokenSecret == "" {
		return fmt.Errorf("PUBLIC_TOKEN_SECRET is required")
	}
	if c.StorageBackend != "local" && c.StorageBackend != "s3" {
		return fmt.Errorf("STORAGE_BACKEND must be \"local\" or \"s3\", got %q", c.StorageBackend)
	}
	if c.StorageBackend == "s3" && (c.S3Endpoint == "" || c.S3Bucket == "") {
		return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required when STORAGE_BACKEND=s3")
	}
	return nil
}

// CRMConfigured reports whether all CRM API settings are present. Lookups
// against an unconfigured CRM fail with a configuration error instead of
// an upstream one.
func (c *Config) CRMConfigured() bool {
	return c.CRMBaseURL != "" && c.CRMUsername != "" && c.CRMPassword != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
