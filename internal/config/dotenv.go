package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given files, or .env when none are given. Missing files are
// skipped and variables that are already set are not overwritten.
func LoadDotEnv(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, filename := range filenames {
		err := godotenv.Load(filename)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			slog.Error("Cannot load env file", "file", filename, "error", err)
			os.Exit(1)
		}
	}
}
