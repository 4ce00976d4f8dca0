package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Dir names the directory for rotated log files. Provide it to move
// system.log and http-access.log out of the default "log".
type Dir string

type loggerParams struct {
	fx.In
	Dir Dir `optional:"true"`
}

func ProvideLoggerMiddleware() *Middleware { return &Middleware{} }

func ProvideLogger(p loggerParams) *zap.Logger {
	SetLogDir(string(p.Dir))
	return NewLog("system.log")
}
