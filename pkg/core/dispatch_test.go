package core

import (
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	reg   *Registry
	calls atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{reg: NewRegistry()}
	count := func(h HandlerFunc) HandlerFunc {
		return func(r *Request) (any, error) {
			f.calls.Add(1)
			return h(r)
		}
	}
	ctrl := ControllerFunc(func() []Route {
		return []Route{
			{Method: "Hello", Paths: []string{"/test"}, Handle: count(text("1234"))},
			{Method: "Obj", Paths: []string{"/obj"}, Handle: count(func(*Request) (any, error) {
				return map[string]any{"errCode": 0, "errMsg": "", "data": nil}, nil
			})},
			{Method: "Panic", Paths: []string{"/panic"}, Handle: count(func(*Request) (any, error) {
				panic("handler exploded")
			})},
			{Method: "Fail", Paths: []string{"/fail"}, Handle: count(func(*Request) (any, error) {
				return nil, errors.New("db down")
			})},
			{Method: "Echo", Paths: []string{"/echo"}, Handle: count(func(r *Request) (any, error) {
				return string(r.Body), nil
			})},
		}
	})
	if err := NewScanner(f.reg, nil).Scan(NewNamespace("app").Controller("Test", Of(ctrl))); err != nil {
		t.Fatalf("scan: %v", err)
	}
	f.reg.Seal()
	return f
}

func get(target string) *Request {
	return &Request{Method: "GET", Target: target, Proto: "HTTP/1.1", Header: Header{}, Body: []byte{}}
}

func TestDispatch_Text(t *testing.T) {
	f := newFixture(t)
	o := NewDispatcher(f.reg, nil).Dispatch(get("/test"))
	if o.Kind != OutcomeText || o.Text != "1234" || o.Route != "Test.Hello" {
		t.Fatalf("outcome = %+v", o)
	}
}

func TestDispatch_Structured(t *testing.T) {
	f := newFixture(t)
	o := NewDispatcher(f.reg, nil).Dispatch(get("/obj"))
	if o.Kind != OutcomeStructured {
		t.Fatalf("kind = %v", o.Kind)
	}
	m, ok := o.Value.(map[string]any)
	if !ok || m["errCode"] != 0 {
		t.Fatalf("value = %#v", o.Value)
	}
}

func TestDispatch_NotFoundNeverInvokes(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.reg, nil)
	for _, target := range []string{"/nope", "/test?x=1", "/test/"} {
		o := d.Dispatch(get(target))
		if o.Kind != OutcomeNotFound || !errors.Is(o.Err, ErrNotFound) || o.Route != "" {
			t.Errorf("%s: outcome = %+v", target, o)
		}
	}
	if n := f.calls.Load(); n != 0 {
		t.Fatalf("handler calls = %d", n)
	}
}

func TestDispatch_PanicBecomesInternalError(t *testing.T) {
	f := newFixture(t)
	zc, logs := observer.New(zapcore.ErrorLevel)
	d := NewDispatcher(f.reg, zap.New(zc))

	o := d.Dispatch(get("/panic"))
	var ie *InvocationError
	if o.Kind != OutcomeInternalError || !errors.As(o.Err, &ie) || !ie.Panic {
		t.Fatalf("outcome = %+v", o)
	}
	if ie.Handler != "Test.Panic" || ie.Key != "/panic" {
		t.Fatalf("invocation error = %+v", ie)
	}
	if logs.FilterMessage("handler failed").Len() != 1 {
		t.Fatalf("logs = %+v", logs.All())
	}

	// the dispatcher stays usable
	if o := d.Dispatch(get("/test")); o.Kind != OutcomeText {
		t.Fatalf("after panic: %+v", o)
	}
}

func TestDispatch_ErrorBecomesInternalError(t *testing.T) {
	f := newFixture(t)
	o := NewDispatcher(f.reg, nil).Dispatch(get("/fail"))
	var ie *InvocationError
	if o.Kind != OutcomeInternalError || !errors.As(o.Err, &ie) || ie.Panic {
		t.Fatalf("outcome = %+v", o)
	}
	if ie.Err.Error() != "db down" {
		t.Fatalf("cause = %v", ie.Err)
	}
}

func TestDispatch_HandlerSeesBody(t *testing.T) {
	f := newFixture(t)
	req := get("/echo")
	req.Method, req.Body = "POST", []byte("payload")
	o := NewDispatcher(f.reg, nil).Dispatch(req)
	if o.Text != "payload" {
		t.Fatalf("outcome = %+v", o)
	}
}

func TestRequest_Decode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	req := get("/x")
	req.Body = []byte(`{"name":"cetty"}`)
	if err := req.Decode(nil, &v); err != nil || v.Name != "cetty" {
		t.Fatalf("decode = %v, %+v", err, v)
	}
	req.Body = []byte(`{"name":"cetty","extra":1}`)
	if err := req.Decode(nil, &v); err == nil {
		t.Fatal("strict decode should reject unknown fields")
	}
}
