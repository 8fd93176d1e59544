package redis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DoContexter interface is implemented by types which process a DoContext request.
// Conn implements DoContexter; all command helpers in this package accept one.
type DoContexter interface {
	DoContext(ctx context.Context, cmd string, args ...interface{}) (Value, error)
}

// DoContexterFunc is an adapter to allow the use of ordinary functions as DoContext handlers.
type DoContexterFunc func(ctx context.Context, cmd string, args ...interface{}) (Value, error)

// DoContext calls f(ctx, cmd, args...).
func (f DoContexterFunc) DoContext(ctx context.Context, cmd string, args ...interface{}) (Value, error) {
	return f(ctx, cmd, args...)
}

// DoContextHandler wraps a DoContexter to provide additional functionality.
type DoContextHandler interface {
	DoContextHandler(DoContexter) DoContexter
}

// DoContextHandlerFunc is an adapter to allow the use of ordinary functions as DoContextHandlers.
type DoContextHandlerFunc func(DoContexter) DoContexter

// DoContextHandler calls f(next).
func (f DoContextHandlerFunc) DoContextHandler(next DoContexter) DoContexter {
	return f(next)
}

// LoggingHandler returns a handler that logs each command at debug level,
// error replies at warn level and connection failures at error level.
// Arguments are not logged.
func LoggingHandler(logger *zap.Logger) DoContextHandler {
	return DoContextHandlerFunc(func(next DoContexter) DoContexter {
		return DoContexterFunc(func(ctx context.Context, cmd string, args ...interface{}) (Value, error) {
			start := time.Now()
			v, err := next.DoContext(ctx, cmd, args...)
			fields := []zap.Field{
				zap.String("cmd", cmd),
				zap.Int("args", len(args)),
				zap.Duration("elapsed", time.Since(start)),
			}
			switch {
			case err == nil:
				logger.Debug("command", append(fields, zap.Stringer("kind", v.Kind()))...)
			case isFatal(err):
				logger.Error("command failed", append(fields, zap.Error(err))...)
			default:
				logger.Warn("command error", append(fields, zap.Error(err))...)
			}
			return v, err
		})
	})
}
