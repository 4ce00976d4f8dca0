// Command cetty-demo serves the sample controllers on the dispatch port.
package main

import (
	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/serverfx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		// controllers log through zap.L(); install it before the scan runs
		fx.Invoke(func(l *zap.Logger) { zap.ReplaceGlobals(l) }),
		serverfx.Module(
			serverfx.WithService("cetty-demo"),
			serverfx.WithNamespace(namespace()),
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
	).Run()
}

func namespace() *core.Namespace {
	ns := core.NewNamespace("demo")
	ns.Controller("TestController", newTestController)
	return ns
}
