package utils

import (
	"os"
	"strconv"
)

// GetEnvInt parses an int valued environment variable, falling back to the
// given default when unset or malformed.
func GetEnvInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetEnvOrDefault returns the environment variable value or the fallback when
// unset.
func GetEnvOrDefault(name string, fallback string) string {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	return value
}
