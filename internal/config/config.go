package config

import (
	"fmt"
	"os"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string

	AccessTokenSecret  string
	RefreshTokenSecret string

	AWSRegion  string
	AWSBucket  string
	CDNBaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	CORSOrigins []string
}

// Load reads the server configuration from environment variables. The two
// token secrets are the only hard requirements.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8787"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSBucket:          os.Getenv("AWS_BUCKET"),
		CDNBaseURL:         os.Getenv("CDN_BASE_URL"),
		RedisHost:          os.Getenv("REDIS_HOST"),
		RedisPort:          os.Getenv("REDIS_PORT"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		CORSOrigins:        []string{getEnv("CORS_ORIGIN", "*")},
	}

	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET environment variable is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("REFRESH_TOKEN_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
