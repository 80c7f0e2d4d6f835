package database

import (
	"os"
	"strings"
)

// DatabaseConfig holds MongoDB connection configuration
type DatabaseConfig struct {
	// MongoDB connection URI (includes all connection details including auth)
	URI string
	// The current environment (local, development, production, or test)
	Environment string
	// Database name derived from environment and service name
	DatabaseName string
	// Application name for MongoDB connection tracking
	AppName string
}

// GetDatabaseConfig retrieves the MongoDB configuration from the environment.
// The database name is auto-generated from service name and environment so
// that staging and production never share collections.
func GetDatabaseConfig() *DatabaseConfig {
	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "development"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "go-itsm-ai-gateway"
	}

	var envPrefix string
	switch environment {
	case "production", "prod":
		envPrefix = "prod"
	case "test":
		envPrefix = "test"
	default:
		envPrefix = "dev"
	}

	return &DatabaseConfig{
		URI:          os.Getenv("MONGODB_URI"),
		Environment:  environment,
		DatabaseName: envPrefix + "-" + serviceName,
		AppName:      serviceName,
	}
}

// Enabled reports whether persistence is configured at all
func (c *DatabaseConfig) Enabled() bool {
	return c.URI != ""
}

// MaskSensitiveData returns a copy safe for logging
func (c *DatabaseConfig) MaskSensitiveData() *DatabaseConfig {
	masked := *c
	if idx := strings.Index(masked.URI, "@"); idx != -1 {
		masked.URI = "mongodb://***:***" + masked.URI[idx:]
	}
	return &masked
}
