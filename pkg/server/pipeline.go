package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/cetty/pkg/middleware/metrics"
	"github.com/joeydtaylor/cetty/pkg/transport/wire"
	"go.uber.org/zap"
)

// State is a step of the per-connection state machine.
type State int

const (
	StateAccepted State = iota
	StateDecoding
	StateDispatching
	StateEncoding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateDecoding:
		return "decoding"
	case StateDispatching:
		return "dispatching"
	case StateEncoding:
		return "encoding"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// lingerBytes caps how much of an unread body is drained after a 413 so
// the client sees the response instead of a reset.
const lingerBytes = 256 << 10

// Result summarizes one connection.
type Result struct {
	ConnID string
	States []State
	Status int // 0 when no response was written
	Route  string
	Bytes  int
	Err    error
}

func (r *Result) enter(s State) { r.States = append(r.States, s) }

// Pipeline serves exactly one request per connection:
// decode, dispatch, encode, respond, close.
type Pipeline struct {
	Decoder     *wire.Decoder
	Dispatcher  *core.Dispatcher
	Encoder     *wire.Encoder
	Log         *zap.Logger
	Access      *logger.Middleware // nil disables access logging
	ReadTimeout time.Duration      // decode only; handlers are never timed out
}

// Serve runs the pipeline on c and closes it.
func (p *Pipeline) Serve(c net.Conn) (res Result) {
	start := time.Now()
	res.ConnID = uuid.NewString()
	res.enter(StateAccepted)
	hmetrics.ConnOpened()

	var req *core.Request
	var lingering bool
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("pipeline panic: %v", r)
			p.log().Error("pipeline panic", zap.String("connId", res.ConnID), zap.Any("panic", r))
		}
		if lingering {
			lingerClose(c)
		}
		_ = c.Close()
		if res.States[len(res.States)-1] != StateClosed {
			res.enter(StateClosed)
		}
		hmetrics.ConnClosed()
		p.finish(c, req, &res, start)
	}()

	br := bufio.NewReader(c)
	bw := bufio.NewWriter(c)

	res.enter(StateDecoding)
	if p.ReadTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(p.ReadTimeout))
	}
	req, err := p.Decoder.Decode(br, bw)
	if p.ReadTimeout > 0 {
		_ = c.SetReadDeadline(time.Time{})
	}

	var outcome core.Outcome
	var oversized *wire.OversizedRequestError
	switch {
	case err == nil:
		req.ConnID = res.ConnID
		req.RemoteAddr = c.RemoteAddr().String()
		res.enter(StateDispatching)
		outcome = p.Dispatcher.Dispatch(req)
	case err == io.EOF:
		// peer connected and left without a request
		return res
	case errors.As(err, &oversized):
		hmetrics.ObserveRejected("oversized")
		outcome = core.ErrorOutcome(core.OutcomeTooLarge, err)
		lingering = true
	default:
		hmetrics.ObserveRejected("malformed")
		outcome = core.ErrorOutcome(core.OutcomeBadRequest, err)
	}
	if outcome.Err != nil {
		res.Err = outcome.Err
	}
	res.Route = outcome.Route

	res.enter(StateEncoding)
	accept := ""
	if req != nil {
		accept = req.Header.Get("Accept-Encoding")
	}
	resp, eerr := p.Encoder.Encode(outcome, accept)
	if eerr != nil {
		p.log().Error("encode failed", zap.String("connId", res.ConnID), zap.Error(eerr))
		res.Err = eerr
	}
	n, werr := wire.WriteResponse(bw, resp)
	res.Status = resp.Status
	res.Bytes = n
	if werr != nil {
		p.log().Warn("write failed", zap.String("connId", res.ConnID), zap.Error(werr))
		if res.Err == nil {
			res.Err = werr
		}
	}
	res.enter(StateClosed)
	return res
}

func (p *Pipeline) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Pipeline) finish(c net.Conn, req *core.Request, res *Result, start time.Time) {
	method := ""
	if req != nil {
		method = req.Method
	}
	if res.Status > 0 {
		hmetrics.ObserveRequest(res.Status, res.Route, method, time.Since(start))
	}
	if p.Access == nil {
		return
	}
	a := logger.ConnAccess{
		ConnID:     res.ConnID,
		RemoteAddr: c.RemoteAddr().String(),
		Route:      res.Route,
		Status:     res.Status,
		Bytes:      res.Bytes,
		State:      res.States[len(res.States)-1].String(),
		Start:      start,
		Err:        res.Err,
	}
	if req != nil {
		a.Proto, a.Method, a.Target = req.Proto, req.Method, req.Target
		a.ContentType, a.Body = req.Header.Get("Content-Type"), req.Body
	}
	p.Access.Conn(a)
}

// lingerClose half-closes and drains a bounded amount of unread input.
func lingerClose(c net.Conn) {
	cw, ok := c.(interface{ CloseWrite() error })
	if !ok {
		return
	}
	_ = cw.CloseWrite()
	_ = c.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, _ = io.CopyN(io.Discard, c, lingerBytes)
}
