package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ConfigPathEnv names the environment variable that overrides the YAML config location.
const ConfigPathEnv = "BOOMBOX_CONFIG"

var defaultEnvPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from the first .env file found. A missing file is
// not an error since variables may be set system-wide. It returns the loaded path.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = defaultEnvPaths
	}

	for _, envPath := range paths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// GetEnv returns the trimmed value of key, or defaultValue when it is unset or blank.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt is GetEnv for integers. Unparsable values fall back to defaultValue.
func GetEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvBool is GetEnv for booleans. Unparsable values fall back to defaultValue.
func GetEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetProjectRoot finds the project root directory by looking for go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod not found)")
}

// ConfigPath resolves the YAML config file: $BOOMBOX_CONFIG, then config/boombox.yaml
// under the project root, then ./boombox.yaml.
func ConfigPath() string {
	if path := GetEnv(ConfigPathEnv, ""); path != "" {
		return path
	}
	if root, err := GetProjectRoot(); err == nil {
		return filepath.Join(root, "config", "boombox.yaml")
	}
	return "boombox.yaml"
}
