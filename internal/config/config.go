package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads a .env file from the current or the parent directory, once.
// It reports the file it loaded, or "" when none was found or readable.
func LoadEnv() string {
	var loaded string
	once.Do(func() {
		envFile := FindEnvFile()
		if envFile == "" {
			return
		}
		if err := godotenv.Load(envFile); err != nil {
			return
		}
		loaded = envFile
	})
	return loaded
}

// FindEnvFile returns the first existing .env in the current or parent
// directory, or "".
func FindEnvFile() string {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// LevelFromEnv parses LOG_LEVEL, defaulting to info.
func LevelFromEnv() logrus.Level {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
