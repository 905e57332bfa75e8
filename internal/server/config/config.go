// Package config handles configuration for the document download API,
// including defaults, environment overlay, JSON overlay, and command-line
// flags.
package config

import "time"

// Config holds runtime settings for the document download API server.
type Config struct {
	// EndpointAddr is the bind address for the public HTTP endpoint.
	EndpointAddr string

	// AuthTokens are the bearer tokens accepted on the upload surface.
	// Each entry is either a clear value or an argon2id hash produced by
	// cryptox.HashAuthToken.
	AuthTokens []string
	// SecretKey is the HMAC secret for verifying HS256 service JWTs. Do
	// not use the test default in production.
	SecretKey string

	// DocumentsBucket holds the encrypted primary copies; ScanFilesBucket
	// holds the plaintext copies that external scanners inspect and tag.
	DocumentsBucket string
	ScanFilesBucket string

	// S3 settings. Root user/password and base endpoint are only for
	// S3-compatible local backends; leave them empty to use the default
	// AWS credential chain.
	S3RootUser     string
	S3RootPassword string
	S3Region       string
	S3BaseEndpoint string

	// AllowedMimeTypes is the global upload allow-list. ExtraMimeTypes
	// holds per-service overrides formatted as "serviceID:mimeType".
	AllowedMimeTypes []string
	ExtraMimeTypes   []string
	// MaxContentLength is the upload size ceiling in bytes.
	MaxContentLength int64

	// HTTPScheme and BackendHostname are used when building the retrieval
	// URLs returned by the upload endpoint.
	HTTPScheme      string
	BackendHostname string

	// AntivirusAPIHost enables the inline scan-files call when non-empty.
	AntivirusAPIHost string
	AntivirusAPIKey  string

	// ScanTimeout bounds how long a download is deferred while a scan is
	// still in progress before access is granted anyway.
	ScanTimeout time.Duration
	// ScanWorkers caps concurrent inline scans.
	ScanWorkers int
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":7000"
	c.AuthTokens = []string{"auth-token"}
	c.SecretKey = "secret-key"
	c.DocumentsBucket = "development-notification-canada-ca-document-download"
	c.ScanFilesBucket = "development-notification-canada-ca-scan-files"
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Region = "ca-central-1"
	c.S3BaseEndpoint = ""
	c.AllowedMimeTypes = []string{"application/pdf", "text/csv", "text/plain"}
	c.ExtraMimeTypes = nil
	c.MaxContentLength = 2*1024*1024 + 1024
	c.HTTPScheme = "http"
	c.BackendHostname = "localhost:7000"
	c.AntivirusAPIHost = ""
	c.AntivirusAPIKey = ""
	c.ScanTimeout = 11 * time.Minute
	c.ScanWorkers = 4
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, from an optional JSON file, and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
