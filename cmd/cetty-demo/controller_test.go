package main

import (
	"testing"

	"github.com/joeydtaylor/cetty/pkg/codec"
	"github.com/joeydtaylor/cetty/pkg/core"
)

func TestDemoRoutes(t *testing.T) {
	reg := core.NewRegistry()
	if err := core.NewScanner(reg, nil).Scan(namespace()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	reg.Seal()
	d := core.NewDispatcher(reg, nil)

	req := func(target string) *core.Request {
		return &core.Request{Method: "GET", Target: target, Proto: "HTTP/1.1", Header: core.Header{"Host": {"x"}}, Body: []byte{}}
	}

	if o := d.Dispatch(req("/test")); o.Text != "1234" {
		t.Fatalf("/test = %+v", o)
	}
	if o := d.Dispatch(req("/zx")); o.Text != "zhuxiong" {
		t.Fatalf("/zx = %+v", o)
	}
	o := d.Dispatch(req("/obj"))
	if o.Kind != core.OutcomeStructured {
		t.Fatalf("/obj = %+v", o)
	}
	b, err := codec.JSON.Marshal(o.Value)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"data":null,"errCode":"00","errMsg":"0000000(成功)"}` {
		t.Fatalf("/obj body = %s", b)
	}
}
