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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gomodule/redicore/redis"
)

// fakeTransport replays canned replies and records what was written.
type fakeTransport struct {
	r io.Reader
	w bytes.Buffer

	// maxWrite limits the bytes accepted per Write when positive.
	maxWrite int
	// writeErr is returned by Write when set.
	writeErr error
	closed   bool
}

func newFakeTransport(replies string) *fakeTransport {
	return &fakeTransport{r: strings.NewReader(replies)}
}

func (t *fakeTransport) Read(p []byte) (int, error) {
	return t.r.Read(p)
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	if t.maxWrite > 0 && len(p) > t.maxWrite {
		p = p[:t.maxWrite]
	}
	return t.w.Write(p)
}

func (t *fakeTransport) Close() error {
	t.closed = true
	return nil
}

// zeroWriter accepts nothing and reports no error.
type zeroWriter struct {
	io.Reader
}

func (zeroWriter) Write(p []byte) (int, error) { return 0, nil }

func encode(args ...interface{}) string {
	return string(redis.AppendCommand(nil, redis.NewCommand(args[0].(string), args[1:]...)))
}

type testConn struct {
	redis.Conn
}

func (t testConn) Close() error {
	_, err := t.Conn.Do("SELECT", "9")
	if err == nil {
		_, err = t.Conn.Do("FLUSHDB")
	}
	if cerr := t.Conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// dial connects to a local server on the default port and selects an empty
// database 9. Tests calling it are skipped when no server is reachable.
func dial(t *testing.T) (redis.Conn, redis.ServerVersion) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, err := redis.DialContext(ctx, "tcp", ":6379", redis.WithReadTimeout(time.Second), redis.WithWriteTimeout(time.Second))
	if err != nil {
		t.Skipf("redis server not available: %v", err)
	}
	if _, err := c.Do("SELECT", "9"); err != nil {
		c.Close()
		t.Skipf("SELECT 9: %v", err)
	}
	n, err := redis.Int(c.Do("DBSIZE"))
	if err != nil {
		c.Close()
		t.Fatalf("DBSIZE: %v", err)
	}
	if n != 0 {
		c.Close()
		t.Skip(errors.New("database #9 is not empty, test can not continue"))
	}
	version, err := redis.FetchServerVersion(ctx, c)
	if err != nil {
		c.Close()
		t.Fatalf("FetchServerVersion: %v", err)
	}
	tc := testConn{c}
	t.Cleanup(func() { tc.Close() })
	return tc, version
}
