package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/flagx"
)

// parseFlags overlays values from command-line flags.
//
//	-a string        HTTP listen address (e.g. ":3000")
//	-d string        PostgreSQL DSN
//	-s string        JWT HMAC secret key
//	-t int           session token validity, minutes
//	-base-url string public base URL used to build image links
//	-backend string  asset backend: fs or s3
//	-images string   images directory for the fs backend
//	-u/-p string     S3 root user / password
//	-b string        S3 bucket
//	-g string        S3 region
//	-e string        S3 base endpoint
//	-l string        log level
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// unrelated flags do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-base-url", "-backend", "-images",
		"-u", "-p", "-b", "-g", "-e", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")

	fs.StringVar(&config.PublicBaseURL, "base-url", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.AssetBackend, "backend", config.AssetBackend, "asset backend (fs or s3)")
	fs.StringVar(&config.ImagesDir, "images", config.ImagesDir, "images directory")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
