// Package config reads the configuration from the environment.
//
// A .env file in the working directory is loaded first when it exists.
// Variables that are already set in the environment take precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	ErrAPIURLMissing = errors.New("environment variable API_URL must be set")
	ErrAPIURLInvalid = errors.New("environment variable API_URL must be a valid URL")
)

type Config struct {
	// Base URL of the API as seen by clients, used for links
	APIURL *url.URL

	Port     int
	DSN      string
	PageSize int

	// LogFormat is "human" or "json"
	LogFormat string
	LogLevel  zerolog.Level
	GinMode   string

	CORSAllowOrigins []string
	EnablePprof      bool

	// AMQPURL enables publishing of change events when set
	AMQPURL      string
	AMQPExchange string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_DSN", "data/budget.db")
	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("GIN_MODE", gin.ReleaseMode)
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("CORS_ALLOW_ORIGINS", "")
	v.SetDefault("ENABLE_PPROF", false)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "budget-events")
}

// Load reads the configuration.
func Load() (Config, error) {
	// A missing .env file is fine, everything can be set in the environment
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	apiURL := v.GetString("API_URL")
	if apiURL == "" {
		return Config{}, ErrAPIURLMissing
	}

	baseURL, err := url.Parse(apiURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return Config{}, fmt.Errorf("%w: %q", ErrAPIURLInvalid, apiURL)
	}
	baseURL.Path = strings.TrimSuffix(baseURL.Path, "/")

	c := Config{
		APIURL:           baseURL,
		Port:             v.GetInt("PORT"),
		DSN:              v.GetString("DB_DSN"),
		PageSize:         v.GetInt("PAGE_SIZE"),
		GinMode:          v.GetString("GIN_MODE"),
		CORSAllowOrigins: strings.Fields(v.GetString("CORS_ALLOW_ORIGINS")),
		EnablePprof:      v.GetBool("ENABLE_PPROF"),
		AMQPURL:          v.GetString("AMQP_URL"),
		AMQPExchange:     v.GetString("AMQP_EXCHANGE"),
	}

	if c.Port <= 0 || c.Port > 65535 {
		return Config{}, fmt.Errorf("PORT must be between 1 and 65535, is %d", c.Port)
	}

	if c.PageSize <= 0 {
		return Config{}, fmt.Errorf("PAGE_SIZE must be positive, is %d", c.PageSize)
	}

	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return Config{}, fmt.Errorf("GIN_MODE must be one of debug, release or test, is %q", c.GinMode)
	}

	// Log format defaults to human readable for development
	// and JSON for release
	c.LogFormat = v.GetString("LOG_FORMAT")
	if c.LogFormat == "" {
		c.LogFormat = "json"
		if c.GinMode == gin.DebugMode {
			c.LogFormat = "human"
		}
	}

	if c.LogFormat != "human" && c.LogFormat != "json" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be human or json, is %q", c.LogFormat)
	}

	c.LogLevel = zerolog.InfoLevel
	if c.GinMode == gin.DebugMode {
		c.LogLevel = zerolog.DebugLevel
	}

	if level := v.GetString("LOG_LEVEL"); level != "" {
		c.LogLevel, err = zerolog.ParseLevel(level)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
		}
	}

	return c, nil
}
