package config

import (
	"encoding/json"
	"os"

	"github.com/cds-snc/notification-document-download-api/internal/flagx"
	"github.com/cds-snc/notification-document-download-api/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "11m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its set fields are copied into
// the runtime Config struct.
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	AuthTokens       []string       `json:"auth_tokens"`
	SecretKey        string         `json:"secret_key"`
	DocumentsBucket  string         `json:"documents_bucket"`
	ScanFilesBucket  string         `json:"scan_files_bucket"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	AllowedMimeTypes []string       `json:"allowed_mime_types"`
	ExtraMimeTypes   []string       `json:"extra_mime_types"`
	MaxContentLength int64          `json:"max_content_length"`
	HTTPScheme       string         `json:"http_scheme"`
	BackendHostname  string         `json:"backend_hostname"`
	AntivirusAPIHost string         `json:"antivirus_api_host"`
	AntivirusAPIKey  string         `json:"antivirus_api_key"`
	ScanTimeout      timex.Duration `json:"scan_timeout"`
	ScanWorkers      int            `json:"scan_workers"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics. Omitted fields leave the existing
// values untouched.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	if len(c.AuthTokens) > 0 {
		config.AuthTokens = c.AuthTokens
	}
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.DocumentsBucket, c.DocumentsBucket)
	setString(&config.ScanFilesBucket, c.ScanFilesBucket)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if len(c.AllowedMimeTypes) > 0 {
		config.AllowedMimeTypes = c.AllowedMimeTypes
	}
	if len(c.ExtraMimeTypes) > 0 {
		config.ExtraMimeTypes = c.ExtraMimeTypes
	}
	if c.MaxContentLength > 0 {
		config.MaxContentLength = c.MaxContentLength
	}
	setString(&config.HTTPScheme, c.HTTPScheme)
	setString(&config.BackendHostname, c.BackendHostname)
	setString(&config.AntivirusAPIHost, c.AntivirusAPIHost)
	setString(&config.AntivirusAPIKey, c.AntivirusAPIKey)
	if c.ScanTimeout.Duration > 0 {
		config.ScanTimeout = c.ScanTimeout.Duration
	}
	if c.ScanWorkers > 0 {
		config.ScanWorkers = c.ScanWorkers
	}
}
