// Copyright 2012 Gary Burd
//
// Licensed under the Apache License, Version 2.0 (the "License"): you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package redis

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gomodule/redicore/internal/observability"
	"go.opencensus.io/stats"
	"go.uber.org/zap"
)

const maxEmptyTransfers = 100

// ErrPendingReplies is returned by Do, Execute and Pipeline when replies to
// commands queued with Send have not been received.
var ErrPendingReplies = errors.New("redicore: replies to sent commands not received")

// conn is the low-level implementation of Conn
type conn struct {
	transport io.ReadWriter

	// wbuf holds encoded commands not yet written.
	wbuf []byte

	// rbuf[r:] holds bytes read from the transport and not yet consumed.
	rbuf []byte
	r    int
	dec  replyDecoder

	pending        int
	readBufferSize int
	readTimeout    time.Duration
	writeTimeout   time.Duration
	logger         *zap.Logger
	doContext      DoContexter

	mu  sync.Mutex
	err error
}

// Dial connects to the Redis server at the given network and address.
func Dial(network, address string, options ...ConnOption) (Conn, error) {
	return DialContext(context.Background(), network, address, options...)
}

// DialContext is like Dial but uses ctx to bound connection establishment.
// The connection is returned as is; authentication and database selection
// are left to the caller.
func DialContext(ctx context.Context, network, address string, options ...ConnOption) (Conn, error) {
	var d net.Dialer
	netConn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	return NewConn(netConn, options...), nil
}

// NewConn returns a new connection over transport. The transport is
// expected to be open and authenticated. If the transport implements
// io.Closer it is closed by Close and when the connection fails.
func NewConn(transport io.ReadWriter, options ...ConnOption) Conn {
	c := &conn{
		transport:      transport,
		readBufferSize: defaultReadBufferSize,
		logger:         zap.NewNop(),
	}
	c.doContext = DoContexterFunc(c.doContextDirect)
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *conn) Close() error {
	var err error
	if closer, ok := c.transport.(io.Closer); ok {
		err = closer.Close()
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = errClosed
	}
	c.mu.Unlock()
	return err
}

func (c *conn) Err() error {
	c.mu.Lock()
	err := c.err
	c.mu.Unlock()
	return err
}

// fatal records err as the permanent connection error and closes the
// transport. The first fatal error wins.
func (c *conn) fatal(err error) error {
	c.mu.Lock()
	first := c.err == nil
	if first {
		c.err = err
	}
	c.mu.Unlock()
	if first {
		c.logger.Error("connection failed", zap.Error(err))
		if closer, ok := c.transport.(io.Closer); ok {
			closer.Close()
		}
	}
	return err
}

func (c *conn) Do(cmd string, args ...interface{}) (Value, error) {
	return c.DoContext(context.Background(), cmd, args...)
}

func (c *conn) DoContext(ctx context.Context, cmd string, args ...interface{}) (Value, error) {
	return c.doContext.DoContext(ctx, cmd, args...)
}

func (c *conn) doContextDirect(ctx context.Context, cmd string, args ...interface{}) (Value, error) {
	return c.Execute(ctx, NewCommand(cmd, args...))
}

// Execute sends cmd and receives its reply. An error reply is returned
// both as the value and as a ServerError. Execute fails with
// ErrPendingReplies while replies to Send remain to be received.
func (c *conn) Execute(ctx context.Context, cmd Command) (Value, error) {
	if err := c.Err(); err != nil {
		return Value{}, err
	}
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	if c.pending > 0 {
		return Value{}, ErrPendingReplies
	}
	ctx = observability.CommandContext(ctx, cmd.Name())
	start := time.Now()

	c.wbuf = AppendCommand(c.wbuf, cmd)
	c.pending++
	if err := c.flush(ctx); err != nil {
		return Value{}, err
	}

	v, err := c.readReply(ctx)
	if err != nil {
		return Value{}, err
	}
	c.pending--
	if v.Kind() == KindError {
		stats.Record(ctx, observability.MServerErrors.M(1))
	}
	stats.Record(ctx, observability.MRoundtripLatencySeconds.M(observability.SinceInSeconds(start)))
	return v, v.Err()
}

func (c *conn) Pipeline(ctx context.Context, cmds ...Command) ([]Value, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.pending > 0 {
		return nil, ErrPendingReplies
	}
	if len(cmds) == 0 {
		return nil, nil
	}
	ctx = observability.CommandContext(ctx, "PIPELINE")
	start := time.Now()

	for _, cmd := range cmds {
		c.wbuf = AppendCommand(c.wbuf, cmd)
	}
	c.pending += len(cmds)
	if err := c.flush(ctx); err != nil {
		return nil, err
	}

	replies := make([]Value, len(cmds))
	for i := range replies {
		v, err := c.readReply(ctx)
		if err != nil {
			return nil, err
		}
		c.pending--
		if v.Kind() == KindError {
			stats.Record(ctx, observability.MServerErrors.M(1))
		}
		replies[i] = v
	}
	stats.Record(ctx, observability.MRoundtripLatencySeconds.M(observability.SinceInSeconds(start)))
	return replies, nil
}

func (c *conn) Send(cmd string, args ...interface{}) error {
	if err := c.Err(); err != nil {
		return err
	}
	c.wbuf = AppendCommand(c.wbuf, NewCommand(cmd, args...))
	c.pending++
	return nil
}

func (c *conn) Flush() error {
	if err := c.Err(); err != nil {
		return err
	}
	return c.flush(context.Background())
}

// Receive flushes buffered commands and reads a single reply. An error
// reply is returned both as the value and as a ServerError.
func (c *conn) Receive() (Value, error) {
	if err := c.Err(); err != nil {
		return Value{}, err
	}
	ctx := context.Background()
	if err := c.flush(ctx); err != nil {
		return Value{}, err
	}
	v, err := c.readReply(ctx)
	if err != nil {
		return Value{}, err
	}
	if c.pending > 0 {
		c.pending--
	}
	return v, v.Err()
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// deadline returns the earlier of the context deadline and now+timeout.
// The zero time means no deadline.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	var t time.Time
	if timeout > 0 {
		t = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (t.IsZero() || d.Before(t)) {
		t = d
	}
	return t
}

// flush writes wbuf to the transport, retrying short writes.
func (c *conn) flush(ctx context.Context) error {
	if len(c.wbuf) == 0 {
		return nil
	}
	if d, ok := c.transport.(writeDeadliner); ok {
		if err := d.SetWriteDeadline(deadline(ctx, c.writeTimeout)); err != nil {
			return c.fatal(&TransportError{Op: "write", Err: err})
		}
	}
	p := c.wbuf
	empty := 0
	for len(p) > 0 {
		n, err := c.transport.Write(p)
		observability.RecordWrite(ctx, n, err)
		p = p[n:]
		if err != nil {
			return c.fatal(&TransportError{Op: "write", Err: err})
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyTransfers {
				return c.fatal(&TransportError{Op: "write", Err: io.ErrShortWrite})
			}
		}
	}
	c.wbuf = c.wbuf[:0]
	return nil
}

// readReply decodes the next reply. Bytes are consumed as elements
// complete, so a large reply is parsed once however it is split.
func (c *conn) readReply(ctx context.Context) (Value, error) {
	for {
		v, n, err := c.dec.decode(c.rbuf[c.r:])
		c.r += n
		if err == nil {
			if c.r == len(c.rbuf) {
				c.rbuf = c.rbuf[:0]
				c.r = 0
			}
			return v, nil
		}
		var short *ShortReplyError
		if !errors.As(err, &short) {
			c.dec.reset()
			stats.Record(ctx, observability.MProtocolErrors.M(1))
			return Value{}, c.fatal(err)
		}
		if err := c.fill(ctx, short.Need); err != nil {
			c.dec.reset()
			return Value{}, err
		}
	}
}

// fill reads at least one byte into rbuf, making room for need bytes. The
// buffer at least doubles when it grows.
func (c *conn) fill(ctx context.Context, need int) error {
	if c.r > 0 {
		n := copy(c.rbuf, c.rbuf[c.r:])
		c.rbuf = c.rbuf[:n]
		c.r = 0
	}
	if need < c.readBufferSize {
		need = c.readBufferSize
	}
	if cap(c.rbuf)-len(c.rbuf) < need {
		size := 2 * cap(c.rbuf)
		if size < len(c.rbuf)+need {
			size = len(c.rbuf) + need
		}
		buf := make([]byte, len(c.rbuf), size)
		copy(buf, c.rbuf)
		c.rbuf = buf
	}
	if d, ok := c.transport.(readDeadliner); ok {
		if err := d.SetReadDeadline(deadline(ctx, c.readTimeout)); err != nil {
			return c.fatal(&TransportError{Op: "read", Err: err})
		}
	}
	for empty := 0; empty < maxEmptyTransfers; empty++ {
		n, err := c.transport.Read(c.rbuf[len(c.rbuf):cap(c.rbuf)])
		observability.RecordRead(ctx, n, err)
		c.rbuf = c.rbuf[:len(c.rbuf)+n]
		if n > 0 {
			return nil
		}
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return c.fatal(&TransportError{Op: "read", Err: err})
		}
	}
	return c.fatal(&TransportError{Op: "read", Err: io.ErrNoProgress})
}
