package config

import (
	"flag"
	"github.com/pkg/errors"
)

// parseFlags overlays Config with command-line flags.
//
//	-addr         HTTP bind address (e.g. ":5000")
//	-store        "mongo" or "memory"
//	-mongo-uri    MongoDB connection string (transactions need a replica set)
//	-mongo-db     MongoDB database name
//	-jwt-secret   HMAC secret used to sign access tokens
//	-token-ttl    access token lifetime (e.g. "168h")
//	-s3-endpoint  S3-compatible endpoint for uploaded images
//	-s3-bucket    bucket for uploaded images
//	-log-level    logrus level name
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("socialite", flag.ContinueOnError)

	fs.StringVar(&c.HTTPAddr, "addr", c.HTTPAddr, "address and port to run server")
	fs.StringVar(&c.Store, "store", c.Store, "persistence backend: mongo or memory")
	fs.StringVar(&c.MongoURI, "mongo-uri", c.MongoURI, "mongo connection uri")
	fs.StringVar(&c.MongoDatabase, "mongo-db", c.MongoDatabase, "mongo database")
	fs.StringVar(&c.JWTSecret, "jwt-secret", c.JWTSecret, "jwt signing secret")
	fs.DurationVar(&c.TokenTTL, "token-ttl", c.TokenTTL, "access token validity")
	fs.StringVar(&c.S3Endpoint, "s3-endpoint", c.S3Endpoint, "S3 base endpoint")
	fs.StringVar(&c.S3Bucket, "s3-bucket", c.S3Bucket, "S3 bucket")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parsing flags failed")
	}
	return nil
}
