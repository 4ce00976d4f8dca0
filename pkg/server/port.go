package server

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// DefaultPort is used whenever the configured port is missing or invalid.
const DefaultPort = 8080

// ConfigError is a configuration value that was rejected and replaced by a default.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParsePort accepts 1 to 5 ASCII digits whose value is in [1, 65535].
// Signs, spaces and hex are rejected.
func ParsePort(raw string) (int, error) {
	bad := func(reason string) (int, error) {
		return 0, &ConfigError{Field: "port", Value: raw, Err: fmt.Errorf("%s", reason)}
	}
	if raw == "" {
		return bad("empty")
	}
	if len(raw) > 5 {
		return bad("too long")
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return bad("not numeric")
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return bad(err.Error())
	}
	if n < 1 || n > 65535 {
		return bad("out of range")
	}
	return n, nil
}

// ResolvePort never fails: an invalid port is logged and DefaultPort returned.
func ResolvePort(raw string, log *zap.Logger) int {
	n, err := ParsePort(raw)
	if err != nil {
		if log != nil {
			log.Warn("invalid port, using default", zap.Error(err), zap.Int("port", DefaultPort))
		}
		return DefaultPort
	}
	return n
}
