package redis

import (
	"time"

	"go.uber.org/zap"
)

const defaultReadBufferSize = 4096

// ConnOption is a function that configures a Conn created by NewConn or Dial.
type ConnOption func(*conn)

// ConnUse sets the middlewares wrapping DoContext. The first handler is the
// outermost.
func ConnUse(handlers ...DoContextHandler) ConnOption {
	return func(c *conn) {
		var h DoContexter = DoContexterFunc(c.doContextDirect)
		for i := len(handlers) - 1; i >= 0; i-- {
			h = handlers[i].DoContextHandler(h)
		}
		c.doContext = h
	}
}

// WithLogger sets the logger used to report connection failures.
func WithLogger(logger *zap.Logger) ConnOption {
	return func(c *conn) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReadBufferSize sets the minimum size of each transport read.
func WithReadBufferSize(size int) ConnOption {
	return func(c *conn) {
		if size > 0 {
			c.readBufferSize = size
		}
	}
}

// WithReadTimeout bounds each transport read when the transport supports
// read deadlines.
func WithReadTimeout(timeout time.Duration) ConnOption {
	return func(c *conn) {
		c.readTimeout = timeout
	}
}

// WithWriteTimeout bounds each transport write when the transport supports
// write deadlines.
func WithWriteTimeout(timeout time.Duration) ConnOption {
	return func(c *conn) {
		c.writeTimeout = timeout
	}
}
