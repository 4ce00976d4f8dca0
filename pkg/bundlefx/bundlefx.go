// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
	"github.com/joeydtaylor/cetty/pkg/middleware/logger"
	"github.com/joeydtaylor/cetty/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides *zap.Logger, *logger.Middleware, *auth.Middleware and the
// named "metrics" handler.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
