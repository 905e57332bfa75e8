package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ENDPOINT_ADDR", ":8080")
	t.Setenv("AUTH_TOKENS", "token-1, token-2")
	t.Setenv("DOCUMENTS_BUCKET", "env-docs")
	t.Setenv("SCAN_FILES_DOCUMENTS_BUCKET", "env-scan")
	t.Setenv("EXTRA_MIME_TYPES", "fccd5d86-afd6-491b-afa8-2ff592e1404f:application/octet-stream")
	t.Setenv("MAX_CONTENT_LENGTH", "1048576")
	t.Setenv("SCAN_TIMEOUT", "10m")
	t.Setenv("SCAN_WORKERS", "2")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, []string{"token-1", "token-2"}, cfg.AuthTokens)
	assert.Equal(t, "env-docs", cfg.DocumentsBucket)
	assert.Equal(t, "env-scan", cfg.ScanFilesBucket)
	assert.Equal(t, []string{"fccd5d86-afd6-491b-afa8-2ff592e1404f:application/octet-stream"}, cfg.ExtraMimeTypes)
	assert.Equal(t, int64(1048576), cfg.MaxContentLength)
	assert.Equal(t, 10*time.Minute, cfg.ScanTimeout)
	assert.Equal(t, 2, cfg.ScanWorkers)
}

func TestParseEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	expected := &Config{}
	expected.LoadDefaults()
	assert.Equal(t, expected, cfg)
}

func TestParseEnv_InvalidTimeoutPanics(t *testing.T) {
	t.Setenv("SCAN_TIMEOUT", "eleven minutes")

	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Panics(t, func() { parseEnv(cfg) })
}
