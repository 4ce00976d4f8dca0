package core

import (
	"sort"
	"sync/atomic"
)

// Registry maps raw route keys to handlers. It is written only during the
// scan phase; after Seal it is read concurrently without locking.
type Registry struct {
	handlers map[string]Handler
	sealed   atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds key to h. The first registration for a key wins.
func (r *Registry) Register(key string, h Handler) error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	if prev, ok := r.handlers[key]; ok {
		return &DuplicateRouteError{Key: key, Existing: prev.Name(), Rejected: h.Name()}
	}
	r.handlers[key] = h
	return nil
}

// Lookup is an exact match on the raw target; "/a?x=1" does not match "/a".
func (r *Registry) Lookup(key string) (Handler, bool) {
	h, ok := r.handlers[key]
	return h, ok
}

// Seal freezes the registry. Call it before the listener starts accepting.
func (r *Registry) Seal() { r.sealed.Store(true) }

func (r *Registry) Sealed() bool { return r.sealed.Load() }

func (r *Registry) Len() int { return len(r.handlers) }

// RouteInfo is a read-only view of one registry entry.
type RouteInfo struct {
	Key        string `json:"key"`
	Controller string `json:"controller"`
	Method     string `json:"method"`
}

// Routes lists every entry sorted by key.
func (r *Registry) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.handlers))
	for k, h := range r.handlers {
		out = append(out, RouteInfo{Key: k, Controller: h.Controller, Method: h.Method})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
