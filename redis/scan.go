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
	"strconv"
)

// Cursor is the iteration token of the SCAN family. Start with
// StartCursor and pass back the cursor returned by each call; iteration is
// complete when the server returns cursor 0.
type Cursor uint64

// StartCursor begins a new iteration.
const StartCursor Cursor = 0

// RedisArg implements the Argument interface.
func (c Cursor) RedisArg() interface{} { return uint64(c) }

// ScanOptions holds the optional modifiers of SCAN, SSCAN, HSCAN and ZSCAN.
type ScanOptions struct {
	// Match filters the returned elements with a glob pattern.
	Match string
	// Count is a hint for the amount of work per call. It does not bound
	// the number of elements returned over an iteration.
	Count int64
	// Type filters SCAN by value type. It is ignored by the keyed variants.
	Type string
}

func (o *ScanOptions) appendArgs(args []interface{}, withType bool) []interface{} {
	if o == nil {
		return args
	}
	if o.Match != "" {
		args = append(args, "MATCH", o.Match)
	}
	if o.Count > 0 {
		args = append(args, "COUNT", o.Count)
	}
	if withType && o.Type != "" {
		args = append(args, "TYPE", o.Type)
	}
	return args
}

// ScanArgs returns the arguments of SCAN cursor [MATCH p] [COUNT n] [TYPE t].
func ScanArgs(cursor Cursor, opts *ScanOptions) []interface{} {
	return opts.appendArgs([]interface{}{cursor}, true)
}

// KeyScanArgs returns the arguments of SSCAN, HSCAN or ZSCAN on key.
func KeyScanArgs(key string, cursor Cursor, opts *ScanOptions) []interface{} {
	return opts.appendArgs([]interface{}{key, cursor}, false)
}

// ScanReply is a helper that converts the two element reply of the SCAN
// family to the next cursor and the returned elements.
func ScanReply(v Value, err error) (Cursor, []string, error) {
	elems, err := Values(v, err)
	if err != nil {
		return 0, nil, err
	}
	if len(elems) != 2 {
		return 0, nil, &MappingError{Mapper: "ScanReply", Kind: KindArray, Detail: "expected 2 elements, got " + strconv.Itoa(len(elems))}
	}
	s, ok := elems[0].AsString()
	if !ok {
		return 0, nil, mappingError("ScanReply", elems[0])
	}
	next, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, nil, &MappingError{Mapper: "ScanReply", Kind: elems[0].Kind(), Detail: "malformed cursor " + strconv.Quote(s)}
	}
	keys, err := Strings(elems[1], nil)
	if err != nil {
		return 0, nil, err
	}
	return Cursor(next), keys, nil
}

// Scan runs one SCAN call. Callers loop until the returned cursor is 0;
// Scanner does this.
func Scan(ctx context.Context, c DoContexter, cursor Cursor, opts *ScanOptions) (Cursor, []string, error) {
	return ScanReply(c.DoContext(ctx, "SCAN", ScanArgs(cursor, opts)...))
}

// Scanner iterates over a SCAN family command.
//
//  s := redis.NewScanner(c, &redis.ScanOptions{Match: "user:*"})
//  for s.Next(ctx) {
//      for _, key := range s.Keys() {
//          ...
//      }
//  }
//  if err := s.Err(); err != nil {
//      ...
//  }
//
// The server may return an element more than once over an iteration.
type Scanner struct {
	c       DoContexter
	cmd     string
	key     string
	opts    *ScanOptions
	cursor  Cursor
	started bool
	keys    []string
	err     error
}

// NewScanner returns a Scanner over the keys of the current database.
func NewScanner(c DoContexter, opts *ScanOptions) *Scanner {
	return &Scanner{c: c, cmd: "SCAN", opts: opts}
}

// NewKeyScanner returns a Scanner for SSCAN, HSCAN or ZSCAN on key. HSCAN
// and ZSCAN batches alternate field or member and value or score.
func NewKeyScanner(c DoContexter, commandName, key string, opts *ScanOptions) *Scanner {
	return &Scanner{c: c, cmd: commandName, key: key, opts: opts}
}

// Next fetches the next batch. It returns false when the iteration is
// complete or failed.
func (s *Scanner) Next(ctx context.Context) bool {
	if s.err != nil || (s.started && s.cursor == 0) {
		return false
	}
	var args []interface{}
	if s.cmd == "SCAN" {
		args = ScanArgs(s.cursor, s.opts)
	} else {
		args = KeyScanArgs(s.key, s.cursor, s.opts)
	}
	cursor, keys, err := ScanReply(s.c.DoContext(ctx, s.cmd, args...))
	if err != nil {
		s.err = err
		s.keys = nil
		return false
	}
	s.started = true
	s.cursor = cursor
	s.keys = keys
	return true
}

// Keys returns the batch fetched by the last call to Next.
func (s *Scanner) Keys() []string { return s.keys }

// Cursor returns the cursor for the next call.
func (s *Scanner) Cursor() Cursor { return s.cursor }

// Err returns the first error encountered by Next.
func (s *Scanner) Err() error { return s.err }

// All runs the iteration to completion and returns every element.
func (s *Scanner) All(ctx context.Context) ([]string, error) {
	var all []string
	for s.Next(ctx) {
		all = append(all, s.keys...)
	}
	return all, s.err
}
