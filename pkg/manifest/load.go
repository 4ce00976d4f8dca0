package manifest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// LoadConfig reads and validates a TOML config file. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// LoadOptional is LoadConfig, except a missing file yields Default().
func LoadOptional(path string) (Config, bool, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with SERVER_PORT, SERVER_HOST and
// ADMIN_LISTEN_ADDRESS when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("SERVER_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("ADMIN_LISTEN_ADDRESS"); v != "" {
		c.Admin.Listen = v
	}
}
