// Package config loads CLI defaults from the environment.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings the CLI passes to the exporter.
type Config struct {
	Sheet      string
	Columns    int
	HeaderRows int
	Filter     string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file from the working directory and then the
// process environment. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.New("failed to load .env file: " + err.Error())
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, falling back to defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Sheet:      getEnv("DATEXPORT_SHEET", ""),
		Columns:    getEnvAsInt("DATEXPORT_COLUMNS", 7),
		HeaderRows: getEnvAsInt("DATEXPORT_HEADER_ROWS", 1),
		Filter:     getEnv("DATEXPORT_FILTER", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration values are usable.
func (c *Config) Validate() error {
	if c.Columns <= 0 {
		return errors.New("column count must be positive")
	}
	if c.HeaderRows < 0 {
		return errors.New("header rows cannot be negative")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errors.New("log format must be console or json")
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
