package config

import (
	"strings"
	"time"

	env "github.com/Netflix/go-env"
)

// EnvConfig is an intermediate DTO for the environment overlay. List-valued
// settings arrive comma-separated and durations as strings ("11m"), so the
// raw values are parsed here before being copied into Config.
type EnvConfig struct {
	EndpointAddr     string `env:"ENDPOINT_ADDR"`
	AuthTokens       string `env:"AUTH_TOKENS"`
	SecretKey        string `env:"SECRET_KEY"`
	DocumentsBucket  string `env:"DOCUMENTS_BUCKET"`
	ScanFilesBucket  string `env:"SCAN_FILES_DOCUMENTS_BUCKET"`
	S3RootUser       string `env:"S3_ROOT_USER"`
	S3RootPassword   string `env:"S3_ROOT_PASSWORD"`
	S3Region         string `env:"S3_REGION"`
	S3BaseEndpoint   string `env:"S3_BASE_ENDPOINT"`
	AllowedMimeTypes string `env:"ALLOWED_MIME_TYPES"`
	ExtraMimeTypes   string `env:"EXTRA_MIME_TYPES"`
	MaxContentLength int64  `env:"MAX_CONTENT_LENGTH"`
	HTTPScheme       string `env:"HTTP_SCHEME"`
	BackendHostname  string `env:"BACKEND_HOSTNAME"`
	AntivirusAPIHost string `env:"ANTIVIRUS_API_HOST"`
	AntivirusAPIKey  string `env:"ANTIVIRUS_API_KEY"`
	ScanTimeout      string `env:"SCAN_TIMEOUT"`
	ScanWorkers      int    `env:"SCAN_WORKERS"`
}

// parseEnv overlays values from the process environment onto Config. Unset
// variables leave the existing values untouched.
func parseEnv(config *Config) {
	var e EnvConfig
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, e.EndpointAddr)
	setStringList(&config.AuthTokens, e.AuthTokens)
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.DocumentsBucket, e.DocumentsBucket)
	setString(&config.ScanFilesBucket, e.ScanFilesBucket)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setStringList(&config.AllowedMimeTypes, e.AllowedMimeTypes)
	setStringList(&config.ExtraMimeTypes, e.ExtraMimeTypes)
	if e.MaxContentLength > 0 {
		config.MaxContentLength = e.MaxContentLength
	}
	setString(&config.HTTPScheme, e.HTTPScheme)
	setString(&config.BackendHostname, e.BackendHostname)
	setString(&config.AntivirusAPIHost, e.AntivirusAPIHost)
	setString(&config.AntivirusAPIKey, e.AntivirusAPIKey)
	if e.ScanTimeout != "" {
		d, err := time.ParseDuration(e.ScanTimeout)
		if err != nil {
			panic(err)
		}
		config.ScanTimeout = d
	}
	if e.ScanWorkers > 0 {
		config.ScanWorkers = e.ScanWorkers
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// setStringList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func setStringList(dst *[]string, v string) {
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
