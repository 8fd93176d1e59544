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

package redis_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/gomodule/redicore/redis"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tr := newFakeTransport("+OK\r\n")
	c := redis.NewConn(tr)

	v, err := c.Execute(context.Background(), redis.NewCommand("SET", "foo", "bar"))
	require.NoError(t, err)
	require.Equal(t, redis.SimpleStringValue("OK"), v)
	require.Equal(t, encode("SET", "foo", "bar"), tr.w.String())
}

func TestRead(t *testing.T) {
	for _, tt := range readTests {
		c := redis.NewConn(newFakeTransport(tt.reply))
		v, err := c.Receive()
		if tt.expected.Kind() == redis.KindError {
			require.Error(t, err, "Receive(%q)", tt.reply)
			require.Equal(t, tt.expected.Err(), err)
		} else {
			require.NoError(t, err, "Receive(%q)", tt.reply)
		}
		require.Equal(t, tt.expected, v, "Receive(%q)", tt.reply)
	}
}

func TestReadOneByteAtATime(t *testing.T) {
	var replies strings.Builder
	for _, tt := range readTests {
		replies.WriteString(tt.reply)
	}
	tr := &fakeTransport{r: iotest.OneByteReader(strings.NewReader(replies.String()))}
	c := redis.NewConn(tr, redis.WithReadBufferSize(1))
	for _, tt := range readTests {
		v, _ := c.Receive()
		require.Equal(t, tt.expected, v, "Receive(%q)", tt.reply)
	}
	require.NoError(t, c.Err())
}

func TestServerErrorKeepsConnUsable(t *testing.T) {
	tr := newFakeTransport("-WRONGTYPE Operation against a key holding the wrong kind of value\r\n+OK\r\n")
	c := redis.NewConn(tr)

	v, err := c.Do("HSET", "key", "fld", "val")
	var se redis.ServerError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "WRONGTYPE", se.Code())
	require.Equal(t, redis.KindError, v.Kind())
	require.NoError(t, c.Err())

	v, err = c.Do("SET", "key", "val")
	require.NoError(t, err)
	require.Equal(t, redis.SimpleStringValue("OK"), v)
}

func TestPipelineOrder(t *testing.T) {
	tr := newFakeTransport(":1\r\n-WRONGTYPE x\r\n$1\r\n1\r\n")
	c := redis.NewConn(tr)

	replies, err := c.Pipeline(context.Background(),
		redis.NewCommand("INCR", "a"),
		redis.NewCommand("LPUSH", "a", "x"),
		redis.NewCommand("GET", "a"))
	require.NoError(t, err)
	require.Equal(t, []redis.Value{
		redis.IntegerValue(1),
		redis.ErrorValue("WRONGTYPE x"),
		redis.BulkStringValue([]byte("1")),
	}, replies)
	require.Equal(t, redis.ServerError("WRONGTYPE x"), replies[1].Err())
	require.Equal(t, encode("INCR", "a")+encode("LPUSH", "a", "x")+encode("GET", "a"), tr.w.String())
	require.NoError(t, c.Err())
}

func TestPipelineEmpty(t *testing.T) {
	tr := newFakeTransport("")
	c := redis.NewConn(tr)
	replies, err := c.Pipeline(context.Background())
	require.NoError(t, err)
	require.Empty(t, replies)
	require.Zero(t, tr.w.Len())
}

func TestPipelineRejectsPendingReplies(t *testing.T) {
	c := redis.NewConn(newFakeTransport("+OK\r\n:1\r\n"))
	require.NoError(t, c.Send("SET", "a", "1"))

	_, err := c.Pipeline(context.Background(), redis.NewCommand("INCR", "a"))
	require.Error(t, err)
	require.NoError(t, c.Err())

	v, err := c.Receive()
	require.NoError(t, err)
	require.Equal(t, redis.SimpleStringValue("OK"), v)
}

func TestSendFlushReceive(t *testing.T) {
	tr := newFakeTransport("+OK\r\n$3\r\nbar\r\n")
	c := redis.NewConn(tr)

	require.NoError(t, c.Send("SET", "foo", "bar"))
	require.NoError(t, c.Send("GET", "foo"))
	require.Zero(t, tr.w.Len(), "Send wrote before Flush")
	require.NoError(t, c.Flush())
	require.Equal(t, encode("SET", "foo", "bar")+encode("GET", "foo"), tr.w.String())

	v, err := c.Receive()
	require.NoError(t, err)
	require.Equal(t, redis.SimpleStringValue("OK"), v)
	s, err := redis.String(c.Receive())
	require.NoError(t, err)
	require.Equal(t, "bar", s)
}

func TestDoRejectsPendingReplies(t *testing.T) {
	tr := newFakeTransport("+QUEUED\r\n+QUEUED\r\n*2\r\n:1\r\n:1\r\n")
	c := redis.NewConn(tr)
	require.NoError(t, c.Send("INCR", "foo"))
	require.NoError(t, c.Send("INCR", "bar"))

	_, err := c.Do("EXEC")
	require.Equal(t, redis.ErrPendingReplies, err)
	require.NoError(t, c.Err())
	require.Zero(t, tr.w.Len(), "EXEC written with replies pending")

	require.NoError(t, c.Send("EXEC"))
	require.NoError(t, c.Flush())
	for i := 0; i < 2; i++ {
		s, err := redis.Status(c.Receive())
		require.NoError(t, err)
		require.Equal(t, "QUEUED", s)
	}
	v, err := c.Receive()
	require.NoError(t, err)
	require.Equal(t, redis.ArrayValue(redis.IntegerValue(1), redis.IntegerValue(1)), v)
}

func TestExecuteKeepsRepliesWithTheirCommands(t *testing.T) {
	ctx := context.Background()
	c := redis.NewConn(newFakeTransport("-WRONGTYPE Operation against a key holding the wrong kind of value\r\n$5\r\nhello\r\n"))
	require.NoError(t, c.Send("LPUSH", "str", "x"))

	_, err := redis.Get(ctx, c, "greeting")
	require.Equal(t, redis.ErrPendingReplies, err)
	_, err = c.Execute(ctx, redis.NewCommand("GET", "greeting"))
	require.Equal(t, redis.ErrPendingReplies, err)

	_, err = c.Receive()
	var se redis.ServerError
	require.True(t, errors.As(err, &se), "got %v", err)
	require.Equal(t, "WRONGTYPE", se.Code())

	v, err := redis.Get(ctx, c, "greeting")
	require.NoError(t, err)
	require.Equal(t, redis.Some("hello"), v)
	require.NoError(t, c.Err())
}

func TestProtocolErrorFaultsConn(t *testing.T) {
	tr := newFakeTransport("@bad\r\n+OK\r\n")
	c := redis.NewConn(tr)

	_, err := c.Do("PING")
	var pe *redis.ProtocolError
	require.True(t, errors.As(err, &pe), "got %v", err)
	require.Equal(t, err, c.Err())
	require.True(t, tr.closed)

	written := tr.w.Len()
	_, err2 := c.Do("PING")
	require.Equal(t, err, err2)
	_, err2 = c.Pipeline(context.Background(), redis.NewCommand("PING"))
	require.Equal(t, err, err2)
	require.Equal(t, err, c.Send("PING"))
	require.Equal(t, written, tr.w.Len(), "faulted conn wrote to transport")
}

func TestUnexpectedEOF(t *testing.T) {
	c := redis.NewConn(newFakeTransport("$5\r\nab"))
	_, err := c.Do("GET", "a")
	var te *redis.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	require.Equal(t, "read", te.Op)
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.Error(t, c.Err())
}

func TestShortWrites(t *testing.T) {
	tr := newFakeTransport("+OK\r\n")
	tr.maxWrite = 3
	c := redis.NewConn(tr)

	_, err := c.Do("SET", "foo", strings.Repeat("x", 100))
	require.NoError(t, err)
	require.Equal(t, encode("SET", "foo", strings.Repeat("x", 100)), tr.w.String())
}

func TestWriteNoProgress(t *testing.T) {
	c := redis.NewConn(zeroWriter{strings.NewReader("+OK\r\n")})
	_, err := c.Do("PING")
	require.True(t, errors.Is(err, io.ErrShortWrite), "got %v", err)
	require.Error(t, c.Err())
}

func TestWriteError(t *testing.T) {
	tr := newFakeTransport("+OK\r\n")
	tr.writeErr = errors.New("broken pipe")
	c := redis.NewConn(tr)
	_, err := c.Do("PING")
	var te *redis.TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "write", te.Op)
	require.True(t, tr.closed)
}

func TestContextCanceled(t *testing.T) {
	tr := newFakeTransport("+OK\r\n")
	c := redis.NewConn(tr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.DoContext(ctx, "PING")
	require.ErrorIs(t, err, context.Canceled)
	_, err = c.Pipeline(ctx, redis.NewCommand("PING"))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, tr.w.Len())
	require.NoError(t, c.Err())

	v, err := c.DoContext(context.Background(), "PING")
	require.NoError(t, err)
	require.Equal(t, redis.SimpleStringValue("OK"), v)
}

func TestClose(t *testing.T) {
	tr := newFakeTransport("+OK\r\n")
	c := redis.NewConn(tr)
	require.NoError(t, c.Close())
	require.True(t, tr.closed)
	require.Error(t, c.Err())
	_, err := c.Do("PING")
	require.Error(t, err)
	require.Zero(t, tr.w.Len())
}

func TestLargeBulkReply(t *testing.T) {
	payload := strings.Repeat("abcdefgh", 10000)
	c := redis.NewConn(newFakeTransport("$80000\r\n" + payload + "\r\n:1\r\n"))
	s, err := redis.String(c.Do("GET", "big"))
	require.NoError(t, err)
	require.Equal(t, payload, s)
	n, err := redis.Int64(c.Do("INCR", "n"))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

// chunkReader returns at most n bytes per Read.
type chunkReader struct {
	r io.Reader
	n int
}

func (r chunkReader) Read(p []byte) (int, error) {
	if len(p) > r.n {
		p = p[:r.n]
	}
	return r.r.Read(p)
}

func TestLargeArrayReply(t *testing.T) {
	const n = 100000
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%d\r\n", n)
	want := make([]string, n)
	for i := range want {
		want[i] = fmt.Sprintf("key:%06d", i)
		fmt.Fprintf(&sb, "$%d\r\n%s\r\n", len(want[i]), want[i])
	}
	sb.WriteString("*2\r\n*1\r\n:1\r\n*0\r\n")

	tr := newFakeTransport("")
	tr.r = chunkReader{r: strings.NewReader(sb.String()), n: 4096}
	c := redis.NewConn(tr)

	done := make(chan struct{})
	var keys []string
	var err error
	go func() {
		defer close(done)
		keys, err = redis.Keys(context.Background(), c, "key:*")
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("decoding a large array did not finish")
	}
	require.NoError(t, err)
	require.Equal(t, want, keys)

	v, err := c.Do("NESTED")
	require.NoError(t, err)
	require.Equal(t, redis.ArrayValue(redis.ArrayValue(redis.IntegerValue(1)), redis.ArrayValue()), v)
}

func TestNestedArrayOneByteAtATime(t *testing.T) {
	tr := newFakeTransport("")
	tr.r = iotest.OneByteReader(strings.NewReader("*3\r\n*2\r\n$1\r\na\r\n$-1\r\n:7\r\n*-1\r\n+OK\r\n"))
	c := redis.NewConn(tr)
	v, err := c.Do("X")
	require.NoError(t, err)
	require.Equal(t, redis.ArrayValue(
		redis.ArrayValue(redis.BulkStringValue([]byte("a")), redis.NullBulkString()),
		redis.IntegerValue(7),
		redis.NullArray()), v)
	s, err := redis.Status(c.Do("PING"))
	require.NoError(t, err)
	require.Equal(t, "OK", s)
}

func TestReadDeadline(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			go func() {
				time.Sleep(time.Second)
				c.Write([]byte("+OK\r\n"))
				c.Close()
			}()
		}
	}()

	c1, err := redis.Dial(l.Addr().Network(), l.Addr().String(), redis.WithReadTimeout(time.Millisecond))
	require.NoError(t, err)
	defer c1.Close()

	_, err = c1.Do("PING")
	require.Error(t, err, "c1.Do() returned nil, expect error")
	require.Error(t, c1.Err(), "c1.Err() = nil, expect error")

	c2, err := redis.Dial(l.Addr().Network(), l.Addr().String())
	require.NoError(t, err)
	defer c2.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)
	_, err = c2.DoContext(ctx, "PING")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c2.DoContext(ctx, "PING")
	var te *redis.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	require.Error(t, c2.Err())
}

func TestDialError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	_, err = redis.Dial("tcp", addr)
	var te *redis.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	require.Equal(t, "dial", te.Op)
}

func TestExecuteIntegration(t *testing.T) {
	c, _ := dial(t)

	_, err := c.Do("SET", "key", "val")
	require.NoError(t, err)
	_, err = c.Do("HSET", "key", "fld", "val")
	require.Error(t, err, "Expected err for HSET on string key.")
	require.NoError(t, c.Err())

	replies, err := c.Pipeline(context.Background(),
		redis.NewCommand("GET", "key"),
		redis.NewCommand("HGET", "key", "fld"),
		redis.NewCommand("GET", "missing"))
	require.NoError(t, err)
	require.Len(t, replies, 3)
	s, _ := replies[0].AsString()
	require.Equal(t, "val", s)
	require.Error(t, replies[1].Err())
	require.True(t, replies[2].IsNull())
}

func TestTestConnCloseAfterSelectFails(t *testing.T) {
	tr := newFakeTransport("-ERR DB index is out of range\r\n")
	err := testConn{redis.NewConn(tr)}.Close()
	require.Equal(t, redis.ServerError("ERR DB index is out of range"), err)
	require.True(t, tr.closed, "transport left open")
}
