// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Document store backends selectable through DOCSTORE_BACKEND.
const (
	DocstorePostgres  = "postgres"
	DocstoreFirestore = "firestore"
	DocstoreMemory    = "memory"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// DocstoreConfig selects the document store backend.
type DocstoreConfig interface {
	GetDocstoreBackend() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetHTTPH2C() bool
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetShutdownTimeout() time.Duration
}

// TLSConfig provides settings for the optional HTTPS listener.
type TLSConfig interface {
	GetHTTPSAddr() string
	GetTLSCertFile() string
	GetTLSKeyFile() string
	IsTLSEnabled() bool
}

// FirebaseConfig provides settings for the identity provider and Firestore.
type FirebaseConfig interface {
	GetFirebaseProjectID() string
	GetFirebaseCredentialsFile() string
	GetFirebaseAPIKey() string
	GetIdentityToolkitURL() string
}

// StorageConfig provides settings for S3-compatible object storage.
type StorageConfig interface {
	GetStorageEndpoint() string
	GetStorageAccessKey() string
	GetStorageSecretKey() string
	GetStorageUseSSL() bool
	GetStorageBucket() string
	GetStoragePublicHost() string
	GetStorageMaxFileSize() int64
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	HTTPSAddr               string
	HTTPH2C                 bool
	TLSCertFile             string
	TLSKeyFile              string
	ShutdownTimeout         time.Duration
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	DocstoreBackend         string
	DatabaseURL             string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseAPIKey          string
	IdentityToolkitURL      string
	StorageEndpoint         string
	StorageAccessKey        string
	StorageSecretKey        string
	StorageUseSSL           bool
	StorageBucket           string
	StoragePublicHost       string
	StorageMaxFileSize      int64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// DocstoreConfig implementation
func (c *Config) GetDocstoreBackend() string { return c.DocstoreBackend }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string               { return c.HTTPAddr }
func (c *Config) GetHTTPH2C() bool                  { return c.HTTPH2C }
func (c *Config) GetCORSAllowAll() bool             { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string          { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool           { return c.CORSAllowCreds }
func (c *Config) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }

// TLSConfig implementation
func (c *Config) GetHTTPSAddr() string   { return c.HTTPSAddr }
func (c *Config) GetTLSCertFile() string { return c.TLSCertFile }
func (c *Config) GetTLSKeyFile() string  { return c.TLSKeyFile }
func (c *Config) IsTLSEnabled() bool     { return c.TLSCertFile != "" && c.TLSKeyFile != "" }

// FirebaseConfig implementation
func (c *Config) GetFirebaseProjectID() string       { return c.FirebaseProjectID }
func (c *Config) GetFirebaseCredentialsFile() string { return c.FirebaseCredentialsFile }
func (c *Config) GetFirebaseAPIKey() string          { return c.FirebaseAPIKey }
func (c *Config) GetIdentityToolkitURL() string      { return c.IdentityToolkitURL }

// StorageConfig implementation
func (c *Config) GetStorageEndpoint() string   { return c.StorageEndpoint }
func (c *Config) GetStorageAccessKey() string  { return c.StorageAccessKey }
func (c *Config) GetStorageSecretKey() string  { return c.StorageSecretKey }
func (c *Config) GetStorageUseSSL() bool       { return c.StorageUseSSL }
func (c *Config) GetStorageBucket() string     { return c.StorageBucket }
func (c *Config) GetStorageMaxFileSize() int64 { return c.StorageMaxFileSize }
func (c *Config) GetStoragePublicHost() string {
	if c.StoragePublicHost != "" {
		return c.StoragePublicHost
	}
	return c.StorageEndpoint
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":3000"),
		HTTPSAddr:               getEnv("HTTPS_ADDR", ":3001"),
		HTTPH2C:                 strings.EqualFold(getEnv("HTTP_H2C", "false"), "true"),
		TLSCertFile:             getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:              getEnv("TLS_KEY_FILE", ""),
		ShutdownTimeout:         mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		DocstoreBackend:         strings.ToLower(getEnv("DOCSTORE_BACKEND", DocstoreFirestore)),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseAPIKey:          getEnv("FIREBASE_API_KEY", ""),
		IdentityToolkitURL:      getEnv("IDENTITY_TOOLKIT_URL", "https://identitytoolkit.googleapis.com"),
		StorageEndpoint:         getEnv("STORAGE_ENDPOINT", "storage.googleapis.com"),
		StorageAccessKey:        getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:        getEnv("STORAGE_SECRET_KEY", ""),
		StorageUseSSL:           strings.EqualFold(getEnv("STORAGE_USE_SSL", "true"), "true"),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		StoragePublicHost:       getEnv("STORAGE_PUBLIC_HOST", ""),
		StorageMaxFileSize:      mustInt64(getEnv("STORAGE_MAX_FILE_SIZE", "10485760")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DocstoreBackend {
	case DocstorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DOCSTORE_BACKEND is postgres")
		}
	case DocstoreFirestore, DocstoreMemory:
	default:
		return fmt.Errorf("DOCSTORE_BACKEND must be one of postgres, firestore, memory; got %q", c.DocstoreBackend)
	}
	if c.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseAPIKey == "" {
		return fmt.Errorf("FIREBASE_API_KEY is required for password sign-in")
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if c.StorageAccessKey == "" || c.StorageSecretKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}
	if c.StorageMaxFileSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_FILE_SIZE must be a positive number of bytes")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
