package config

import (
	"fmt"
	"os"
	"strconv"

	domainconfig "memcore/domain/config"
)

// Config holds all application configuration
type Config struct {
	Environment string

	// Vocabulary and embedding table overrides. Empty means builtins only.
	VocabularyFile string

	// Embedding fallback for model identities absent from the table
	UnknownModelPattern   string
	UnknownModelMinLength int

	// Re-validation policy for stored integrity hashes
	HashVerification string

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		VocabularyFile: getEnv("VOCABULARY_FILE", ""),

		UnknownModelPattern:   getEnv("UNKNOWN_MODEL_PATTERN", ""),
		UnknownModelMinLength: getEnvInt("UNKNOWN_MODEL_MIN_LENGTH", 0),

		HashVerification: getEnv("HASH_VERIFICATION", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.HashVerification {
	case "", string(domainconfig.HashPolicyVerify), string(domainconfig.HashPolicyTrust):
	default:
		return fmt.Errorf("HASH_VERIFICATION must be %q or %q, got %q",
			domainconfig.HashPolicyVerify, domainconfig.HashPolicyTrust, c.HashVerification)
	}
	if c.UnknownModelMinLength < 0 {
		return fmt.Errorf("UNKNOWN_MODEL_MIN_LENGTH cannot be negative")
	}
	if c.VocabularyFile != "" {
		if _, err := os.Stat(c.VocabularyFile); err != nil {
			return fmt.Errorf("VOCABULARY_FILE: %w", err)
		}
	}
	return nil
}

// DomainConfig derives the admission rules for this environment, with
// any environment-variable overrides applied on top.
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	dc := domainconfig.LoadDomainConfig(c.Environment)

	if c.UnknownModelPattern != "" {
		dc.UnknownModelPattern = c.UnknownModelPattern
	}
	if c.UnknownModelMinLength > 0 {
		dc.UnknownModelMinLength = c.UnknownModelMinLength
	}
	if c.HashVerification != "" {
		dc.HashVerification = domainconfig.HashVerificationPolicy(c.HashVerification)
	}

	return dc
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
