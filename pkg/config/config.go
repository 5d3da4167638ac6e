package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	LogLevel        logrus.Level `json:"log_level"`
	OutputFormat    string       `json:"output_format"`
	Recursive       bool         `json:"recursive"`
	DependenciesDir string       `json:"dependencies_dir"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        logrus.InfoLevel,
		OutputFormat:    "text", // text, json
		Recursive:       true,
		DependenciesDir: "dependencies",
	}
}

// NewLogger creates a configured logger instance
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
