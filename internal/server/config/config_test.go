package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddr, ":7000")
	assert.Equal(t, c.AuthTokens, []string{"auth-token"})
	assert.Equal(t, c.SecretKey, "secret-key")
	assert.Equal(t, c.DocumentsBucket, "development-notification-canada-ca-document-download")
	assert.Equal(t, c.ScanFilesBucket, "development-notification-canada-ca-scan-files")
	assert.Equal(t, c.S3Region, "ca-central-1")
	assert.Equal(t, c.AllowedMimeTypes, []string{"application/pdf", "text/csv", "text/plain"})
	assert.Equal(t, c.MaxContentLength, int64(2*1024*1024+1024))
	assert.Equal(t, c.HTTPScheme, "http")
	assert.Equal(t, c.BackendHostname, "localhost:7000")
	assert.Equal(t, c.ScanTimeout, 11*time.Minute)
	assert.Equal(t, c.ScanWorkers, 4)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.EndpointAddr, ":7000")
	assert.Equal(t, c.DocumentsBucket, "development-notification-canada-ca-document-download")
	assert.Equal(t, c.ScanTimeout, 11*time.Minute)
}
