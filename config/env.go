package config

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the trimmed value of an environment variable, or "" when unset
func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// GetEnvInt reads an integer environment variable, returning fallback when unset or malformed
func GetEnvInt(key string, fallback int) int {
	value := GetEnv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
