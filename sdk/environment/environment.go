// Package environment loads configuration from environment variables, with
// optional .env files, namespacing by prefix and struct-tag defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadEnv() error {
	return LoadPath("")
}

// LoadPath loads the given .env file, or .env when p is empty. A missing file
// is not an error; services run from plain environment variables in production.
func LoadPath(p string) error {
	var err error
	if p != "" {
		err = godotenv.Load(p)
	} else {
		err = godotenv.Load()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// GetEnvOrDefault retrieves an environment variable value, returning fallback
// when the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix joins prefix and key with an underscore:
// ("SESSIONS", "PG_DATABASE_URL") -> "SESSIONS_PG_DATABASE_URL".
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetPrefixEnvOrDefault is GetEnvOrDefault for a prefixed key.
func GetPrefixEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}
