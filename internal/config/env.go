package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from .env/.env.local, first file
// found wins. Existing process environment is never overwritten. Missing
// files are not an error.
func LoadEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
		return
	}
}
