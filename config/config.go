// Package config handles configuration of the API server, including
// defaults, a .env overlay, SOCIALITE_* environment variables and command-line flags.
package config

import (
	"github.com/pkg/errors"
	"time"
)

// store kinds
const (
	MongoStore  = "mongo"
	MemoryStore = "memory"
)

// Config holds runtime settings for the API server.
type Config struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigin      string

	Store         string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	RateLimit int
	RateBurst int

	LogLevel string
	LogDir   string
}

// LoadDefaults populates Config with development defaults.
// The JWT secret and S3 credentials must be overridden outside of development.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.ReadTimeout = 15 * time.Second
	c.WriteTimeout = 30 * time.Second
	c.IdleTimeout = 60 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.CORSOrigin = "*"

	c.Store = MongoStore
	c.MongoURI = "mongodb://127.0.0.1:27017/?replicaSet=rs0"
	c.MongoDatabase = "socialite"

	c.JWTSecret = "secretKey"
	c.TokenTTL = 7 * 24 * time.Hour

	c.S3Endpoint = "http://127.0.0.1:9000"
	c.S3Region = "us-east-1"
	c.S3Bucket = "socialite"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3PublicURL = ""

	c.RateLimit = 20
	c.RateBurst = 40

	c.LogLevel = "info"
	c.LogDir = "generated"
}

// PublicURL is the base URL uploaded images are served from
func (c *Config) PublicURL() string {
	if c.S3PublicURL != "" {
		return c.S3PublicURL
	}
	return c.S3Endpoint + "/" + c.S3Bucket
}

// Validate reports settings that cannot work together
func (c *Config) Validate() error {
	switch c.Store {
	case MongoStore:
		if c.MongoURI == "" {
			return errors.New("mongo uri is required for the mongo store")
		}
	case MemoryStore:
	default:
		return errors.Errorf("unknown store %q", c.Store)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	// a zero rate limit turns limiting off
	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return errors.New("rate burst must be positive when rate limiting is on")
	}
	return nil
}

// Load builds a Config by applying defaults, then the optional .env file,
// SOCIALITE_* environment variables and finally command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
