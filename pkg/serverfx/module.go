package serverfx

import (
	"github.com/joeydtaylor/cetty/pkg/bundlefx"
	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/transport/httpx"
	"go.uber.org/fx"
)

// ---------- Options ----------

type Config struct {
	Service       string // for logs only
	ConfigEnv     string // e.g., CETTY_CONFIG
	DefaultConfig string // e.g., "cetty.toml"; a missing file means defaults
	Namespace     *core.Namespace
	Registry      *core.Registry
}

type Option func(*Config)

func WithService(s string) Option          { return func(c *Config) { c.Service = s } }
func WithConfigEnv(k string) Option        { return func(c *Config) { c.ConfigEnv = k } }
func WithDefaultConfig(path string) Option { return func(c *Config) { c.DefaultConfig = path } }

// WithNamespace scans ns at startup into a fresh registry.
func WithNamespace(ns *core.Namespace) Option { return func(c *Config) { c.Namespace = ns } }

// WithRegistry serves a registry built elsewhere. It is sealed if it is not already.
func WithRegistry(reg *core.Registry) Option { return func(c *Config) { c.Registry = reg } }

func defaultConfig() Config {
	return Config{
		Service:       "cetty",
		ConfigEnv:     "CETTY_CONFIG",
		DefaultConfig: "cetty.toml",
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Logger, auth, metrics handler
		bundlefx.Module,
		// Admin router impl
		fx.Provide(httpx.NewChi),
		// Config into DI
		fx.Supply(cfg),
		fx.Provide(provideSettings),
		fx.Provide(provideLogDir),
		// Registry, sealed before anything serves
		fx.Provide(provideRegistry),
		// Dispatch listener + optional admin server
		fx.Provide(provideListener),
		fx.Provide(fx.Annotate(provideAdmin, fx.ResultTags(`name:"admin"`))),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}
