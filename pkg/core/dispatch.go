package core

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// Dispatcher resolves a request against the registry and runs the handler
// on the calling goroutine.
type Dispatcher struct {
	reg *Registry
	log *zap.Logger
}

func NewDispatcher(reg *Registry, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{reg: reg, log: log}
}

// Dispatch performs one lookup and at most one invocation.
func (d *Dispatcher) Dispatch(req *Request) Outcome {
	h, ok := d.reg.Lookup(req.Target)
	if !ok {
		return ErrorOutcome(OutcomeNotFound, fmt.Errorf("%w: %q", ErrNotFound, req.Target))
	}

	out, err := invoke(h, req)
	if err != nil {
		d.log.Error("handler failed",
			zap.String("connId", req.ConnID),
			zap.String("target", req.Target),
			zap.String("handler", h.Name()),
			zap.Error(err),
		)
		o := ErrorOutcome(OutcomeInternalError, err)
		o.Route = h.Name()
		return o
	}

	var o Outcome
	if s, isText := out.(string); isText {
		o = TextOutcome(s)
	} else {
		o = ValueOutcome(out)
	}
	o.Route = h.Name()
	return o
}

func invoke(h Handler, req *Request) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &InvocationError{
				Key:     req.Target,
				Handler: h.Name(),
				Panic:   true,
				Err:     fmt.Errorf("%v\n%s", r, debug.Stack()),
			}
		}
	}()
	out, err = h.Invoke(req)
	if err != nil {
		return nil, &InvocationError{Key: req.Target, Handler: h.Name(), Err: err}
	}
	return out, nil
}
