package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/piiquante/internal/flagx"
	"github.com/dmitrijs2005/piiquante/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept either "24h" style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	TokenTTL           timex.Duration `json:"token_ttl"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	PublicBaseURL      string         `json:"public_base_url"`
	AssetBackend       string         `json:"asset_backend"`
	ImagesDir          string         `json:"images_dir"`
	MaxUploadSize      int64          `json:"max_upload_size"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3PublicBaseURL    string         `json:"s3_public_base_url"`
	S3PresignTTL       timex.Duration `json:"s3_presign_ttl"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins"`
	AuthRatePerMinute  int            `json:"auth_rate_per_minute"`
	AuthRateBurst      int            `json:"auth_rate_burst"`
	TrustProxyHeaders  bool           `json:"trust_proxy_headers"`
}

// parseJson overlays values from the file named by -c/-config. Only keys
// present with a non-zero value replace what earlier layers set. An
// unreadable file or invalid JSON panics, like a bad flag does.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.AssetBackend, c.AssetBackend)
	setString(&config.ImagesDir, c.ImagesDir)
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	if c.S3PresignTTL.Duration > 0 {
		config.S3PresignTTL = c.S3PresignTTL.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.AuthRatePerMinute > 0 {
		config.AuthRatePerMinute = c.AuthRatePerMinute
	}
	if c.AuthRateBurst > 0 {
		config.AuthRateBurst = c.AuthRateBurst
	}
	if c.TrustProxyHeaders {
		config.TrustProxyHeaders = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
