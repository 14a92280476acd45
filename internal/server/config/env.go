package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for tests.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv overlays values from the process environment. A .env file in
// the working directory is loaded first if present; variables already set
// in the environment win over the file.
//
// PORT is honoured for platforms that only hand out a port number; HTTP_ADDR
// takes precedence when both are set.
func parseEnv(config *Config) {
	_ = loadDotEnv()

	if port := os.Getenv("PORT"); port != "" {
		config.HTTPAddr = ":" + port
	}
	config.HTTPAddr = getEnv("HTTP_ADDR", config.HTTPAddr)
	config.DatabaseDSN = getEnv("DATABASE_URL", config.DatabaseDSN)
	config.SecretKey = getEnv("SECRET_KEY", config.SecretKey)
	config.TokenTTL = getEnvDuration("TOKEN_TTL", config.TokenTTL)
	config.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", config.ShutdownTimeout)

	config.PublicBaseURL = getEnv("PUBLIC_BASE_URL", config.PublicBaseURL)
	config.AssetBackend = getEnv("ASSET_BACKEND", config.AssetBackend)
	config.ImagesDir = getEnv("IMAGES_DIR", config.ImagesDir)
	config.MaxUploadSize = int64(getEnvInt("MAX_UPLOAD_SIZE", int(config.MaxUploadSize)))

	config.S3RootUser = getEnv("S3_ROOT_USER", config.S3RootUser)
	config.S3RootPassword = getEnv("S3_ROOT_PASSWORD", config.S3RootPassword)
	config.S3Bucket = getEnv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getEnv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getEnv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
	config.S3PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", config.S3PublicBaseURL)
	config.S3PresignTTL = getEnvDuration("S3_PRESIGN_TTL", config.S3PresignTTL)

	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORSAllowedOrigins = splitList(origins)
	}
	config.AuthRatePerMinute = getEnvInt("AUTH_RATE_PER_MINUTE", config.AuthRatePerMinute)
	config.AuthRateBurst = getEnvInt("AUTH_RATE_BURST", config.AuthRateBurst)
	config.TrustProxyHeaders = getEnvBool("TRUST_PROXY_HEADERS", config.TrustProxyHeaders)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// The typed getters keep defaultValue when the variable is unset and panic
// when it is set to something that does not parse, like a bad flag does.

func getEnvInt(key string, defaultValue int) int {
	return getEnvParsed(key, defaultValue, strconv.Atoi)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvParsed(key, defaultValue, time.ParseDuration)
}

func getEnvBool(key string, defaultValue bool) bool {
	return getEnvParsed(key, defaultValue, strconv.ParseBool)
}

func getEnvParsed[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := parse(raw)
	if err != nil {
		panic(fmt.Errorf("invalid value %q for %s: %w", raw, key, err))
	}
	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
