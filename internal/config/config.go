package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string `mapstructure:"GO_ENV"`
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis (optional: cache + token revocation)
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// R2 / S3
	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"` // Custom domain

	// Live message stream keepalive
	HeartbeatSeconds int `mapstructure:"HEARTBEAT_SECONDS"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("HEARTBEAT_SECONDS", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	if c == nil || c.JWTTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// HeartbeatInterval is how often open message streams receive a keepalive.
func (c *Config) HeartbeatInterval() time.Duration {
	if c == nil || c.HeartbeatSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

// StorageConfigured reports whether object storage credentials are present.
func (c *Config) StorageConfigured() bool {
	return c != nil && c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2BucketName != ""
}
