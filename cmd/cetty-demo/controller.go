package main

import (
	"github.com/joeydtaylor/cetty/pkg/core"
	"go.uber.org/zap"
)

type testController struct {
	log *zap.Logger
}

func newTestController() (core.Controller, error) {
	return &testController{log: zap.L().Named("demo")}, nil
}

func (c *testController) Routes() []core.Route {
	return []core.Route{
		{Method: "Test", Paths: []string{"/test"}, Handle: c.test},
		{Method: "Zx", Paths: []string{"/zx"}, Handle: c.zx},
		{Method: "Obj", Paths: []string{"/obj"}, Handle: c.obj},
	}
}

func (c *testController) test(*core.Request) (any, error) { return "1234", nil }

func (c *testController) zx(*core.Request) (any, error) { return "zhuxiong", nil }

// obj dumps the request and answers with the success envelope.
func (c *testController) obj(req *core.Request) (any, error) {
	fields := make([]zap.Field, 0, len(req.Header)+2)
	for k, v := range req.Header {
		fields = append(fields, zap.Strings(k, v))
	}
	fields = append(fields, zap.String("connId", req.ConnID), zap.ByteString("body", req.Body))
	c.log.Debug("obj request", fields...)

	return map[string]any{
		"errCode": "00",
		"errMsg":  "0000000(成功)",
		"data":    nil,
	}, nil
}
