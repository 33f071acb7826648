// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application. Timeouts are in
// seconds and the inter-request delay in milliseconds, matching the
// environment variable names.
type Config struct {
	ServerAddr          string `mapstructure:"SERVER_ADDR"`
	CrawlConcurrency    int    `mapstructure:"CRAWL_CONCURRENCY"`
	MaxContactPages     int    `mapstructure:"MAX_CONTACT_PAGES"`
	HomepageTimeoutSecs int    `mapstructure:"HOMEPAGE_TIMEOUT_SECONDS"`
	SubpageTimeoutSecs  int    `mapstructure:"SUBPAGE_TIMEOUT_SECONDS"`
	SubpageDelayMillis  int    `mapstructure:"SUBPAGE_DELAY_MS"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the environment. Every key has a default,
// so the application starts with no configuration at all.
func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("CRAWL_CONCURRENCY", 3)
	viper.SetDefault("MAX_CONTACT_PAGES", 12)
	viper.SetDefault("HOMEPAGE_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SUBPAGE_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SUBPAGE_DELAY_MS", 300)
	viper.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
