package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// ErrNotSet is returned when a variable is missing or blank.
var ErrNotSet = errors.New("environment variable not set")

// =============================================================================
// Core Environment Variable Getters
// =============================================================================

func SanitizeEnv(envName string) (string, error) {
	if len(envName) == 0 {
		return "", errors.New("environment variable name should not be empty")
	}

	retValue := strings.TrimSpace(os.Getenv(envName))
	if len(retValue) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotSet, envName)
	}

	return retValue, nil
}

func GetEnvString(envName string) (string, error) {
	return SanitizeEnv(envName)
}

func GetEnvBool(envName string) (bool, error) {
	envValue, err := SanitizeEnv(envName)
	if err != nil {
		return false, err
	}

	retValue, err := strconv.ParseBool(envValue)
	if err != nil {
		return false, fmt.Errorf("%s: %w", envName, err)
	}

	return retValue, nil
}

func GetEnvInt(envName string) (int, error) {
	envValue, err := SanitizeEnv(envName)
	if err != nil {
		return 0, err
	}

	retValue, err := strconv.ParseInt(envValue, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envName, err)
	}

	return int(retValue), nil
}

func GetEnvFloat64(envName string) (float64, error) {
	envValue, err := SanitizeEnv(envName)
	if err != nil {
		return 0, err
	}

	retValue, err := strconv.ParseFloat(envValue, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envName, err)
	}

	return retValue, nil
}

// =============================================================================
// Environment Variables with Defaults (safe for optional config)
// =============================================================================

// GetEnvStringOrDefault returns the env value or a default if not set
func GetEnvStringOrDefault(envName, defaultValue string) string {
	v, err := GetEnvString(envName)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetEnvBoolOrDefault returns the env value or a default if not set or invalid
func GetEnvBoolOrDefault(envName string, defaultValue bool) bool {
	v, err := GetEnvBool(envName)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetEnvIntOrDefault returns the env value or a default if not set or invalid
func GetEnvIntOrDefault(envName string, defaultValue int) int {
	v, err := GetEnvInt(envName)
	if err != nil {
		return defaultValue
	}
	return v
}

// LookupEnvInt is like GetEnvIntOrDefault but reports a malformed value
// instead of hiding it behind the default.
func LookupEnvInt(envName string, defaultValue int) (int, error) {
	v, err := GetEnvInt(envName)
	if errors.Is(err, ErrNotSet) {
		return defaultValue, nil
	}
	return v, err
}

// LookupEnvFloat64 is the float counterpart of LookupEnvInt.
func LookupEnvFloat64(envName string, defaultValue float64) (float64, error) {
	v, err := GetEnvFloat64(envName)
	if errors.Is(err, ErrNotSet) {
		return defaultValue, nil
	}
	return v, err
}
