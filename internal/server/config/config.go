// Package config handles configuration for the server component, including
// defaults, .env/environment overlay, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Secure Share server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty DSN selects the in-memory
//     registry, which is only suitable for ephemeral/demo deployments.
//   - SecretKey: server secret. Feeds per-file key derivation and signs
//     session tokens (HS256). Do not use the development default in prod.
//   - SessionValidityDuration: session token lifetime.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. Empty
//     endpoint selects the local-directory blob store instead.
//   - UploadDir: directory for the local blob store fallback.
//   - MaxUploadSize: upload size limit in bytes.
type Config struct {
	EndpointAddrHTTP        string
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	UploadDir               string
	MaxUploadSize           int64
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 1 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.UploadDir = "uploads"
	c.MaxUploadSize = 16 << 20 // 16 MiB
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (including an optional .env file), an optional JSON
// file, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
