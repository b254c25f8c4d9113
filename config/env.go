package config

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"os"
	"strconv"
	"time"
)

const envPrefix = "SOCIALITE_"

// loadDotEnv loads variables from the given file into the process environment.
// Variables already present in the environment win; a missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s failed", path)
	}
	return nil
}

func parseEnv(c *Config) (err error) {
	envString("HTTP_ADDR", &c.HTTPAddr)
	envString("CORS_ORIGIN", &c.CORSOrigin)
	envString("STORE", &c.Store)
	envString("MONGO_URI", &c.MongoURI)
	envString("MONGO_DB", &c.MongoDatabase)
	envString("JWT_SECRET", &c.JWTSecret)
	envString("S3_ENDPOINT", &c.S3Endpoint)
	envString("S3_REGION", &c.S3Region)
	envString("S3_BUCKET", &c.S3Bucket)
	envString("S3_ACCESS_KEY", &c.S3AccessKey)
	envString("S3_SECRET_KEY", &c.S3SecretKey)
	envString("S3_PUBLIC_URL", &c.S3PublicURL)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("LOG_DIR", &c.LogDir)

	durations := map[string]*time.Duration{
		"READ_TIMEOUT":     &c.ReadTimeout,
		"WRITE_TIMEOUT":    &c.WriteTimeout,
		"IDLE_TIMEOUT":     &c.IdleTimeout,
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
		"TOKEN_TTL":        &c.TokenTTL,
	}
	for name, dst := range durations {
		if err = envDuration(name, dst); err != nil {
			return
		}
	}
	if err = envInt("RATE_LIMIT", &c.RateLimit); err != nil {
		return
	}
	err = envInt("RATE_BURST", &c.RateBurst)
	return
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envDuration(name string, dst *time.Duration) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "parsing %s%s", envPrefix, name)
	}
	*dst = d
	return nil
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parsing %s%s", envPrefix, name)
	}
	*dst = n
	return nil
}
