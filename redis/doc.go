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

// Package redis implements the protocol core of a client for the Redis
// database: RESP command encoding, reply decoding, typed reply helpers and
// builders for BITFIELD, SORT and the SCAN family.
//
// Connections
//
// The Conn interface is the primary interface for working with Redis.
// Applications create connections by calling the Dial, DialContext,
// DialConfig or NewConn functions. NewConn runs the protocol over any
// io.ReadWriter, which is how the package is tested.
//
// The application must call the connection Close method when the application
// is done with the connection.
//
// Executing Commands
//
// The Conn interface has a generic method for executing Redis commands:
//
//  Do(commandName string, args ...interface{}) (Value, error)
//
// Arguments of type string and []byte are sent to the server as is. The value
// false is converted to "0" and the value true is converted to "1". The value
// nil is converted to "". Integers and floats are formatted with strconv. All
// other values are converted to a string using the fmt.Fprint function. Types
// implementing Argument choose their own encoding.
//
// Replies are returned as a Value, a tagged union of the RESP reply types:
//
//  Redis type          Kind
//  error               KindError, also returned as a ServerError
//  integer             KindInteger
//  status              KindSimpleString
//  bulk                KindBulkString, IsNull when not present
//  multi-bulk          KindArray, IsNull when not present
//
// An error reply does not affect the connection. A malformed reply or a
// failed read or write puts the connection in a failed state: every later
// call returns the same error and the connection must be discarded.
//
// Pipelining
//
// Connections support pipelining using the Send, Flush and Receive methods.
//
//  Send(commandName string, args ...interface{}) error
//  Flush() error
//  Receive() (Value, error)
//
// Send writes the command to the connection's output buffer. Flush flushes the
// connection's output buffer to the server. Receive reads a single reply from
// the server. The following example shows a simple pipeline.
//
//  c.Send("SET", "foo", "bar")
//  c.Send("GET", "foo")
//  c.Flush()
//  c.Receive() // reply from SET
//  v, err = c.Receive() // reply from GET
//
// The Do method combines the functionality of the Send, Flush and Receive
// methods for a single command. Do, Execute and Pipeline return
// ErrPendingReplies without writing anything while replies to commands
// queued with Send have not been received, so a reply is never returned
// for the wrong command.
//
// The Pipeline method writes a batch of commands with a single flush and
// returns one reply per command in order. Error replies stay in their slot:
//
//  replies, err := c.Pipeline(ctx,
//      redis.NewCommand("INCR", "a"),
//      redis.NewCommand("LPUSH", "a", "x"), // WRONGTYPE
//      redis.NewCommand("GET", "a"))
//
// Concurrency
//
// A connection serves one caller at a time. Do, Send, Flush, Receive,
// Execute and Pipeline cannot be called concurrently. Close and Err may be
// called at any time.
//
// Reply Helpers
//
// The Int64, Bool, String, Optional, Optionals, Strings, Decimal and
// OptionalInts functions convert a reply to a value of a specific type. To
// allow convenient wrapping of calls to the connection Do and Receive
// methods, the functions take a second argument of type error. If the error
// is non-nil, then the helper function returns the error. If the error is
// nil, the function converts the reply to the specified type:
//
//  exists, err := redis.Bool(c.Do("EXISTS", "foo"))
//  if err != nil {
//      // handle error return from c.Do or type conversion error.
//  }
//
// A reply of the wrong shape is reported as a *MappingError.
//
// Server Versions
//
// Some commands exist only on newer servers. Read the version once per
// connection with FetchServerVersion and pass it to the gated commands,
// Bitfield and Touch, which return an *UnsupportedError instead of sending
// a command the server does not know.
package redis
