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

	assert.Equal(t, c.EndpointAddrHTTP, ":8080")
	assert.Equal(t, c.DatabaseDSN, "")
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.SessionValidityDuration, 1*time.Hour)
	assert.Equal(t, c.S3RootUser, "admin")
	assert.Equal(t, c.S3RootPassword, "secretpassword")
	assert.Equal(t, c.S3Bucket, "vault")
	assert.Equal(t, c.S3Region, "us-east-1")
	assert.Equal(t, c.S3BaseEndpoint, "")
	assert.Equal(t, c.UploadDir, "uploads")
	assert.Equal(t, c.MaxUploadSize, int64(16<<20))
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.EndpointAddrHTTP, ":8080")
	assert.Equal(t, c.DatabaseDSN, "")
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.SessionValidityDuration, 1*time.Hour)
	assert.Equal(t, c.S3RootUser, "admin")
	assert.Equal(t, c.S3RootPassword, "secretpassword")
	assert.Equal(t, c.S3Bucket, "vault")
	assert.Equal(t, c.S3Region, "us-east-1")
	assert.Equal(t, c.S3BaseEndpoint, "")
	assert.Equal(t, c.UploadDir, "uploads")
	assert.Equal(t, c.MaxUploadSize, int64(16<<20))
}
