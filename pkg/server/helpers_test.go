package server

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/joeydtaylor/cetty/pkg/core"
)

type testApp struct {
	reg   *core.Registry
	calls atomic.Int32
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	a := &testApp{reg: core.NewRegistry()}
	counted := func(h core.HandlerFunc) core.HandlerFunc {
		return func(r *core.Request) (any, error) {
			a.calls.Add(1)
			return h(r)
		}
	}
	ctrl := core.ControllerFunc(func() []core.Route {
		return []core.Route{
			{Method: "Hello", Paths: []string{"/test"}, Handle: counted(func(*core.Request) (any, error) {
				return "1234", nil
			})},
			{Method: "Obj", Paths: []string{"/obj"}, Handle: counted(func(*core.Request) (any, error) {
				return map[string]any{"errCode": "00", "errMsg": "0000000(成功)", "data": nil}, nil
			})},
			{Method: "Echo", Paths: []string{"/echo"}, Handle: counted(func(r *core.Request) (any, error) {
				return string(r.Body), nil
			})},
			{Method: "Panic", Paths: []string{"/panic"}, Handle: counted(func(*core.Request) (any, error) {
				panic("boom")
			})},
			{Method: "Fail", Paths: []string{"/fail"}, Handle: counted(func(*core.Request) (any, error) {
				return nil, errors.New("nope")
			})},
		}
	})
	if err := core.NewScanner(a.reg, nil).Scan(core.NewNamespace("test").Controller("Test", core.Of(ctrl))); err != nil {
		t.Fatalf("scan: %v", err)
	}
	a.reg.Seal()
	return a
}
