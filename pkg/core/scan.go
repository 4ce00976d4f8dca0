package core

import (
	"errors"
	"fmt"

	hmetrics "github.com/joeydtaylor/cetty/pkg/middleware/metrics"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Scanner walks a Namespace and fills a Registry.
type Scanner struct {
	reg *Registry
	log *zap.Logger
}

func NewScanner(reg *Registry, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{reg: reg, log: log}
}

// Scan instantiates every controller under root once and registers its
// routes. Per-controller failures and duplicate keys are collected and
// returned together; they never stop the walk.
func (s *Scanner) Scan(root *Namespace) error {
	if root == nil {
		return errors.New("core: nil namespace")
	}
	var errs error
	routes := 0
	root.walk(func(ns *Namespace, e controllerEntry) {
		n, err := s.load(ns, e)
		routes += n
		errs = multierr.Append(errs, err)
	})
	scanErrs := len(multierr.Errors(errs))
	hmetrics.ObserveScan(routes, scanErrs)
	s.log.Info("scan complete",
		zap.String("namespace", root.Path()),
		zap.Int("routes", routes),
		zap.Int("errors", scanErrs),
	)
	return errs
}

func (s *Scanner) load(ns *Namespace, e controllerEntry) (registered int, errs error) {
	scanErr := func(err error) error {
		se := &ScanError{Namespace: ns.Path(), Controller: e.name, Err: err}
		s.log.Error("controller skipped", zap.Error(se))
		return se
	}

	inst, err := construct(e.ctor)
	if err != nil {
		return 0, scanErr(err)
	}
	s.log.Info("controller loaded", zap.String("namespace", ns.Path()), zap.String("controller", e.name))

	routes, err := introspect(inst)
	if err != nil {
		return 0, scanErr(err)
	}

	for _, rt := range routes {
		if rt.Handle == nil {
			errs = multierr.Append(errs, scanErr(fmt.Errorf("method %q has no handler", rt.Method)))
			continue
		}
		h := NewHandler(e.name, inst, rt.Method, rt.Handle)
		for _, p := range rt.Paths {
			if p == "" {
				errs = multierr.Append(errs, scanErr(fmt.Errorf("method %q declares an empty path", rt.Method)))
				continue
			}
			if err := s.reg.Register(p, h); err != nil {
				s.log.Warn("route rejected", zap.String("path", p), zap.Error(err))
				errs = multierr.Append(errs, err)
				continue
			}
			s.log.Info("route registered", zap.String("path", p), zap.String("handler", h.Name()))
			registered++
		}
	}
	return registered, errs
}

func construct(ctor Constructor) (c Controller, err error) {
	if ctor == nil {
		return nil, errors.New("nil constructor")
	}
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	c, err = ctor()
	if err == nil && c == nil {
		err = errors.New("constructor returned nil controller")
	}
	return c, err
}

func introspect(c Controller) (routes []Route, err error) {
	defer func() {
		if r := recover(); r != nil {
			routes, err = nil, fmt.Errorf("routes panicked: %v", r)
		}
	}()
	return c.Routes(), nil
}
