package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadSettings builds the flat settings map the registry and the rest of the
// tool are configured from. Values in envFile (a dotenv file) are loaded
// first, then overlaid with the process environment, so exported variables
// always win. A missing envFile is not an error.
func LoadSettings(envFile string) (map[string]string, error) {
	settings := map[string]string{}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			fromFile, err := godotenv.Read(envFile)
			if err != nil {
				return nil, fmt.Errorf("failed to parse env file %s: %w", envFile, err)
			}
			for key, value := range fromFile {
				settings[key] = value
			}
		}
	}

	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		settings[key] = value
	}

	return settings, nil
}

// Get returns settings[key], or fallback when the key is unset or empty.
func Get(settings map[string]string, key, fallback string) string {
	if value := settings[key]; value != "" {
		return value
	}
	return fallback
}
