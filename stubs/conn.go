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

package stubs

import (
	"context"
	"errors"

	"github.com/gomodule/redicore/redis"
)

// ErrNotImplemented is the default error returned when a
// method is invoked without a stub func defined.
var ErrNotImplemented = errors.New("stub: not implemented")

// Conn is a redis.Conn whose methods call the matching On func. Methods
// without a func return ErrNotImplemented. Do and DoContext fall back to
// OnExecute when OnDo is not set.
type Conn struct {
	OnClose    func() error
	OnErr      func() error
	OnDo       func(ctx context.Context, commandName string, args ...interface{}) (redis.Value, error)
	OnExecute  func(ctx context.Context, cmd redis.Command) (redis.Value, error)
	OnPipeline func(ctx context.Context, cmds ...redis.Command) ([]redis.Value, error)
	OnSend     func(commandName string, args ...interface{}) error
	OnFlush    func() error
	OnReceive  func() (redis.Value, error)
}

var _ redis.Conn = (*Conn)(nil)

// Close conforms to the redis.Conn interface.
// "Close closes the connection."
func (s *Conn) Close() error {
	if s.OnClose == nil {
		return ErrNotImplemented
	}
	return s.OnClose()
}

// Err conforms to the redis.Conn interface.
// "Err returns a non-nil value when the connection is not usable."
func (s *Conn) Err() error {
	if s.OnErr == nil {
		return ErrNotImplemented
	}
	return s.OnErr()
}

// Do conforms to the redis.Conn interface.
// "Do sends a command to the server and returns the received reply."
func (s *Conn) Do(cmd string, args ...interface{}) (redis.Value, error) {
	return s.DoContext(context.Background(), cmd, args...)
}

// DoContext conforms to the redis.Conn interface.
func (s *Conn) DoContext(ctx context.Context, cmd string, args ...interface{}) (redis.Value, error) {
	if s.OnDo != nil {
		return s.OnDo(ctx, cmd, args...)
	}
	if s.OnExecute != nil {
		return s.OnExecute(ctx, redis.NewCommand(cmd, args...))
	}
	return redis.Value{}, ErrNotImplemented
}

// Execute conforms to the redis.Conn interface.
// "Execute sends cmd and returns its reply."
func (s *Conn) Execute(ctx context.Context, cmd redis.Command) (redis.Value, error) {
	if s.OnExecute == nil {
		return redis.Value{}, ErrNotImplemented
	}
	return s.OnExecute(ctx, cmd)
}

// Pipeline conforms to the redis.Conn interface.
func (s *Conn) Pipeline(ctx context.Context, cmds ...redis.Command) ([]redis.Value, error) {
	if s.OnPipeline == nil {
		return nil, ErrNotImplemented
	}
	return s.OnPipeline(ctx, cmds...)
}

// Send conforms to the redis.Conn interface.
// "Send writes the command to the client's output buffer."
func (s *Conn) Send(cmd string, args ...interface{}) error {
	if s.OnSend == nil {
		return ErrNotImplemented
	}
	return s.OnSend(cmd, args...)
}

// Flush conforms to the redis.Conn interface.
// "Flush flushes the output buffer to the Redis server."
func (s *Conn) Flush() error {
	if s.OnFlush == nil {
		return ErrNotImplemented
	}
	return s.OnFlush()
}

// Receive conforms to the redis.Conn interface.
// "Receive receives a single reply from the Redis server"
func (s *Conn) Receive() (redis.Value, error) {
	if s.OnReceive == nil {
		return redis.Value{}, ErrNotImplemented
	}
	return s.OnReceive()
}
