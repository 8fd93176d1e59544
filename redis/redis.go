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
)

// Conn represents a connection to a Redis server.
type Conn interface {
	// Close closes the connection.
	Close() error

	// Err returns a non-nil value when the connection is not usable.
	Err() error

	// Do sends a command to the server and returns the received reply.
	Do(commandName string, args ...interface{}) (Value, error)

	// DoContext is like Do but returns ctx.Err() without sending anything
	// when ctx is done, and bounds the round trip by the deadline of ctx.
	DoContext(ctx context.Context, commandName string, args ...interface{}) (Value, error)

	// Send writes the command to the client's output buffer.
	Send(commandName string, args ...interface{}) error

	// Flush flushes the output buffer to the Redis server.
	Flush() error

	// Receive receives a single reply from the Redis server.
	Receive() (Value, error)

	// Execute sends cmd and returns its reply.
	Execute(ctx context.Context, cmd Command) (Value, error)

	// Pipeline writes all commands before reading any reply and returns
	// the replies in the order the commands were given. Error replies are
	// returned in place; the returned error is only set when the
	// connection failed.
	Pipeline(ctx context.Context, cmds ...Command) ([]Value, error)
}

// Do executes a command on c with the background context. It is the
// function form of Conn.Do for DoContexter implementations such as a
// middleware chain.
func Do(c DoContexter, commandName string, args ...interface{}) (Value, error) {
	return c.DoContext(context.Background(), commandName, args...)
}
