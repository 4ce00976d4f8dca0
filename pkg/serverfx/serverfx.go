package serverfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/cetty/pkg/admin"
	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/manifest"
	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
	"github.com/joeydtaylor/cetty/pkg/middleware/logger"
	"github.com/joeydtaylor/cetty/pkg/server"
	"github.com/joeydtaylor/cetty/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNoControllers is returned when neither WithNamespace nor WithRegistry was given.
var ErrNoControllers = errors.New("serverfx: WithNamespace or WithRegistry is required")

// ---------- Settings ----------

// configSource records where settings came from, for the startup log.
type configSource struct {
	Path  string
	Found bool
}

// provideSettings must not depend on *zap.Logger: the system logger is
// built from these settings.
func provideSettings(cfg Config) (manifest.Config, configSource, error) {
	path := envOr(cfg.ConfigEnv, cfg.DefaultConfig)
	s, found, err := manifest.LoadOptional(path)
	if err != nil {
		return manifest.Config{}, configSource{}, fmt.Errorf("config %s: %w", path, err)
	}
	s.ApplyEnv(os.Getenv)
	logger.AddBodyLogPaths(s.Log.BodyPaths...)
	return s, configSource{Path: path, Found: found}, nil
}

func provideLogDir(s manifest.Config) logger.Dir { return logger.Dir(s.Log.Dir) }

// ---------- Registry ----------

func provideRegistry(cfg Config, s manifest.Config, zl *zap.Logger) (*core.Registry, error) {
	if cfg.Registry != nil {
		cfg.Registry.Seal()
		return cfg.Registry, nil
	}
	if cfg.Namespace == nil {
		return nil, ErrNoControllers
	}

	reg := core.NewRegistry()
	if err := core.NewScanner(reg, zl).Scan(cfg.Namespace); err != nil {
		if s.Scan.Strict {
			return nil, fmt.Errorf("scan %s: %w", cfg.Namespace.Path(), err)
		}
		zl.Warn("scan finished with errors", zap.Error(err))
	}
	reg.Seal()
	return reg, nil
}

// ---------- Servers ----------

func provideListener(s manifest.Config, reg *core.Registry, zl *zap.Logger) *server.Listener {
	return server.New(server.Options{
		Host:         s.Server.Host,
		Port:         s.Server.PortString(),
		MaxConns:     s.Server.MaxConns,
		MaxBodyBytes: s.Server.MaxBodyBytes,
		ReadTimeout:  time.Duration(s.Server.ReadTimeoutMS) * time.Millisecond,
		Compression:  s.Server.CompressionEnabled(),
		AccessLog:    s.Log.AccessEnabled(),
	}, reg, zl)
}

type adminDeps struct {
	fx.In

	Settings manifest.Config
	Registry *core.Registry
	AuthMW   *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  http.Handler `name:"metrics"`
	R        httpx.Router
}

// provideAdmin returns nil when admin.listen is empty.
func provideAdmin(d adminDeps) *http.Server {
	addr := d.Settings.Admin.Listen
	if addr == "" {
		return nil
	}
	var lm *logger.Middleware
	if d.Settings.Log.AccessEnabled() {
		lm = d.LogMW
	}
	h := admin.BuildRouter(d.Registry, admin.Deps{
		Auth:    d.AuthMW,
		LogMW:   lm,
		Metrics: d.Metrics,
		Router:  d.R,
	})
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// ---------- Lifecycle ----------

type serverDeps struct {
	fx.In
	Logger   *zap.Logger
	Source   configSource
	Listener *server.Listener
	Admin    *http.Server `name:"admin"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if d.Source.Found {
				d.Logger.Info("config loaded", zap.String("service", cfg.Service), zap.String("path", d.Source.Path))
			} else {
				d.Logger.Info("config file not found, using defaults", zap.String("service", cfg.Service), zap.String("path", d.Source.Path))
			}
			if err := d.Listener.Start(ctx); err != nil {
				return fmt.Errorf("listener: %w", err)
			}
			d.Logger.Info("server started",
				zap.String("service", cfg.Service),
				zap.String("addr", d.Listener.Addr().String()),
			)

			if d.Admin == nil {
				return nil
			}
			ln, err := net.Listen("tcp", d.Admin.Addr)
			if err != nil {
				_ = d.Listener.Shutdown(ctx)
				return fmt.Errorf("admin listener: %w", err)
			}
			d.Logger.Info("admin server starting", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := d.Admin.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Error("admin server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", cfg.Service))
			var err error
			if d.Admin != nil {
				err = d.Admin.Shutdown(ctx)
			}
			return multierr.Append(err, d.Listener.Shutdown(ctx))
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if k == "" {
		return def
	}
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
