package loader

import (
	"os"
	"strings"
)

// EnvLoader loads configuration from environment variables. Variable
// names map to flat lowercase keys: KEYHINT_GRID_ROWS sets grid_rows.
type EnvLoader struct {
	prefix string // Environment variable prefix (e.g., "KEYHINT_")

	// keys restricts the loader to known settings; nil reads every
	// prefixed variable.
	keys map[string]struct{}
}

// NewEnvLoader creates a loader reading every variable with prefix.
// The prefix should include the trailing underscore (e.g., "KEYHINT_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// NewEnvLoaderForKeys creates a loader that only reads the variables of
// the given setting keys.
func NewEnvLoaderForKeys(prefix string, keys []string) *EnvLoader {
	l := &EnvLoader{prefix: prefix, keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		l.keys[k] = struct{}{}
	}
	return l
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		key := l.EnvToKey(name)
		if l.keys != nil {
			if _, known := l.keys[key]; !known {
				continue
			}
		}
		config[key] = parseValue(value)
	}

	return config, nil
}

// EnvToKey converts KEYHINT_GRID_ROWS to grid_rows.
func (l *EnvLoader) EnvToKey(env string) string {
	return strings.ToLower(strings.TrimPrefix(env, l.prefix))
}

// KeyToEnv converts grid_rows to KEYHINT_GRID_ROWS.
func (l *EnvLoader) KeyToEnv(key string) string {
	return l.prefix + strings.ToUpper(key)
}

// parseValue recognises boolean words. Everything else stays a string
// and is converted when the map is decoded.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return s
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
