package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first; real environment variables take
// precedence, matching godotenv semantics.
//
// Supported variables:
//
//	ADDRESS                HTTP bind address
//	DATABASE_DSN           PostgreSQL DSN
//	SECRET_KEY             server secret
//	SESSION_TTL_MINUTES    session token validity, minutes
//	S3_ROOT_USER           S3 access key
//	S3_ROOT_PASSWORD       S3 secret key
//	S3_BUCKET              S3 bucket name
//	S3_REGION              S3 region
//	S3_BASE_ENDPOINT       S3 base endpoint (MinIO style)
//	UPLOAD_FOLDER          local blob store directory
//	MAX_UPLOAD_SIZE_MB     upload size limit, MiB
func parseEnv(config *Config) {
	// best effort: a missing .env file is not an error
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("ADDRESS", &config.EndpointAddrHTTP)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setString("UPLOAD_FOLDER", &config.UploadDir)

	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.SessionValidityDuration = time.Duration(minutes) * time.Minute
		}
	}

	if v := os.Getenv("MAX_UPLOAD_SIZE_MB"); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxUploadSize = mb << 20
		}
	}
}
