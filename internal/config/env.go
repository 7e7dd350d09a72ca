package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one present is loaded.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFile loads KEY=VALUE pairs from .env/.env.local into the process environment.
// Variables already present in the environment are never overwritten. It returns the
// name of the loaded file, or "" when none exists.
func LoadEnvFile() (string, error) {
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", nil
}
