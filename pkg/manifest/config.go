package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultMaxBodyBytes int64 = 512 * 1024
	DefaultConfigPath         = "cetty.toml"
)

// Config is the service configuration file.
type Config struct {
	Server Server `toml:"server"`
	Scan   Scan   `toml:"scan"`
	Admin  Admin  `toml:"admin"`
	Log    Log    `toml:"log"`
}

type Server struct {
	Port          any    `toml:"port"` // integer or string; validated when the listener starts
	Host          string `toml:"host"`
	MaxBodyBytes  int64  `toml:"max_body_bytes"`
	MaxConns      int    `toml:"max_conns"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
	Compression   *bool  `toml:"compression"`
}

type Scan struct {
	Strict bool `toml:"strict"` // any scan error aborts startup
}

type Admin struct {
	Listen string `toml:"listen"` // empty disables the admin surface
}

type Log struct {
	Access    *bool    `toml:"access"`
	Dir       string   `toml:"dir"`
	BodyPaths []string `toml:"body_paths"` // request bodies logged for these targets only
}

// Default returns the configuration used when no file is present.
func Default() Config {
	c := Config{}
	_ = c.Validate()
	return c
}

// Validate rejects impossible values and fills defaults in place.
func (c *Config) Validate() error {
	s := &c.Server
	if s.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes: must not be negative (got %d)", s.MaxBodyBytes)
	}
	if s.MaxConns < 0 {
		return fmt.Errorf("server.max_conns: must not be negative (got %d)", s.MaxConns)
	}
	if s.ReadTimeoutMS < 0 {
		return fmt.Errorf("server.read_timeout_ms: must not be negative (got %d)", s.ReadTimeoutMS)
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s.Host = strings.TrimSpace(s.Host)
	c.Admin.Listen = strings.TrimSpace(c.Admin.Listen)

	for i, p := range c.Log.BodyPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("log.body_paths[%d]: %q must start with /", i, p)
		}
	}
	return nil
}

// PortString renders the configured port for validation. Missing yields "".
func (s Server) PortString() string {
	switch v := s.Port.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func (s Server) CompressionEnabled() bool { return s.Compression == nil || *s.Compression }

func (l Log) AccessEnabled() bool { return l.Access == nil || *l.Access }
