package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; values already present in the process environment win.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			slog.Debug("Loaded environment variables", slog.String("file", name))
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Failed to load env file", slog.String("file", name), slog.String("error", err.Error()))
		}
	}
}
