package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/middleware/logger"
	"github.com/joeydtaylor/cetty/pkg/transport/wire"
	"go.uber.org/zap"
)

// ErrRegistryNotReady is returned when serving is attempted without a sealed registry.
var ErrRegistryNotReady = errors.New("server: registry is nil or not sealed")

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("server: closed")

// Options configures a Listener.
type Options struct {
	Host         string
	Port         string // raw value; invalid ports fall back to DefaultPort
	MaxConns     int    // 0 means unbounded
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	Compression  bool
	AccessLog    bool
}

// Listener accepts TCP connections and hands each one to a Pipeline on
// its own goroutine.
type Listener struct {
	addr     string
	reg      *core.Registry
	pipeline *Pipeline
	log      *zap.Logger
	sem      chan struct{}

	mu       sync.Mutex
	ln       net.Listener
	shutdown bool
	conns    sync.WaitGroup
	done     chan struct{}
}

func New(opts Options, reg *core.Registry, log *zap.Logger) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	port := ResolvePort(opts.Port, log)
	p := &Pipeline{
		Decoder:     &wire.Decoder{MaxBodyBytes: opts.MaxBodyBytes},
		Dispatcher:  core.NewDispatcher(reg, log),
		Encoder:     &wire.Encoder{Compression: opts.Compression},
		Log:         log,
		ReadTimeout: opts.ReadTimeout,
	}
	if opts.AccessLog {
		p.Access = &logger.Middleware{}
	}
	l := &Listener{
		addr:     net.JoinHostPort(opts.Host, strconv.Itoa(port)),
		reg:      reg,
		pipeline: p,
		log:      log,
		done:     make(chan struct{}),
	}
	if opts.MaxConns > 0 {
		l.sem = make(chan struct{}, opts.MaxConns)
	}
	return l
}

// Start binds the configured address and accepts in the background.
func (l *Listener) Start(ctx context.Context) error {
	if !l.ready() {
		return ErrRegistryNotReady
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	l.log.Info("listener started", zap.String("addr", ln.Addr().String()), zap.Int("routes", l.reg.Len()))
	go func() {
		if err := l.Serve(ln); err != nil && !errors.Is(err, ErrServerClosed) {
			l.log.Error("accept loop stopped", zap.Error(err))
		}
	}()
	return nil
}

// Serve accepts on ln until Shutdown. It always closes ln and may be
// called once per Listener.
func (l *Listener) Serve(ln net.Listener) error {
	if !l.ready() {
		_ = ln.Close()
		return ErrRegistryNotReady
	}
	defer close(l.done)
	l.mu.Lock()
	if l.shutdown {
		l.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	l.ln = ln
	l.mu.Unlock()

	var backoff time.Duration
	for {
		if l.sem != nil {
			l.sem <- struct{}{}
		}
		c, err := ln.Accept()
		if err != nil {
			l.release()
			if l.closing() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			// EMFILE, ECONNABORTED and friends clear up on their own
			backoff = nextBackoff(backoff)
			l.log.Warn("accept failed, retrying", zap.Error(err), zap.Duration("backoff", backoff))
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		l.conns.Add(1)
		go func() {
			defer l.conns.Done()
			defer l.release()
			l.pipeline.Serve(c)
		}()
	}
}

// Addr is the bound address, or nil before Start/Serve.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Shutdown stops accepting and waits for in-flight connections until ctx is done.
func (l *Listener) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	l.shutdown = true
	ln := l.ln
	l.mu.Unlock()
	if ln == nil {
		return nil
	}
	_ = ln.Close()

	idle := make(chan struct{})
	go func() {
		<-l.done
		l.conns.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		l.log.Info("listener stopped", zap.String("addr", ln.Addr().String()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Listener) ready() bool { return l.reg != nil && l.reg.Sealed() }

func (l *Listener) closing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shutdown
}

func (l *Listener) release() {
	if l.sem != nil {
		<-l.sem
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		return time.Second
	}
	return d
}
