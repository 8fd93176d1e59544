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
)

// Typed commands. Each runs one command through c and maps the reply with
// the helper matching the command's reply contract.

// Set sets key to value. It returns false when an NX or XX condition
// prevented the write.
func Set(ctx context.Context, c DoContexter, key string, value interface{}, options ...SetOption) (bool, error) {
	var o SetOptions
	for _, option := range options {
		option(&o)
	}
	mods, err := o.Build()
	if err != nil {
		return false, err
	}
	args := append([]interface{}{key, value}, mods...)
	return Bool(c.DoContext(ctx, "SET", args...))
}

// Get returns the value of key, absent when the key does not exist.
func Get(ctx context.Context, c DoContexter, key string) (OptionalString, error) {
	return Optional(c.DoContext(ctx, "GET", key))
}

// GetSet sets key to value and returns the previous value.
func GetSet(ctx context.Context, c DoContexter, key string, value interface{}) (OptionalString, error) {
	return Optional(c.DoContext(ctx, "GETSET", key, value))
}

// MSet sets each key to its value. pairs alternate keys and values.
func MSet(ctx context.Context, c DoContexter, pairs ...interface{}) (bool, error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return false, errors.New("redicore: MSet requires key value pairs")
	}
	return Bool(c.DoContext(ctx, "MSET", pairs...))
}

// MGet returns the values of keys, absent for keys that do not exist.
func MGet(ctx context.Context, c DoContexter, keys ...string) ([]OptionalString, error) {
	return Optionals(c.DoContext(ctx, "MGET", stringArgs(keys)...))
}

// Del removes keys and returns the number removed.
func Del(ctx context.Context, c DoContexter, keys ...string) (int64, error) {
	return Int64(c.DoContext(ctx, "DEL", stringArgs(keys)...))
}

// Touch updates the last access time of keys and returns the number of
// keys that exist. TOUCH requires server 3.2.1.
func Touch(ctx context.Context, c DoContexter, version ServerVersion, keys ...string) (int64, error) {
	if err := version.require("TOUCH"); err != nil {
		return 0, err
	}
	return Int64(c.DoContext(ctx, "TOUCH", stringArgs(keys)...))
}

func Incr(ctx context.Context, c DoContexter, key string) (int64, error) {
	return Int64(c.DoContext(ctx, "INCR", key))
}

func IncrBy(ctx context.Context, c DoContexter, key string, increment int64) (int64, error) {
	return Int64(c.DoContext(ctx, "INCRBY", key, increment))
}

func Decr(ctx context.Context, c DoContexter, key string) (int64, error) {
	return Int64(c.DoContext(ctx, "DECR", key))
}

func DecrBy(ctx context.Context, c DoContexter, key string, decrement int64) (int64, error) {
	return Int64(c.DoContext(ctx, "DECRBY", key, decrement))
}

// IncrByFloat increments key by increment and returns the new value as
// the server formatted it.
func IncrByFloat(ctx context.Context, c DoContexter, key string, increment float64) (DecimalString, error) {
	return Decimal(c.DoContext(ctx, "INCRBYFLOAT", key, increment))
}

// Keys returns the keys matching pattern.
func Keys(ctx context.Context, c DoContexter, pattern string) ([]string, error) {
	return Strings(c.DoContext(ctx, "KEYS", pattern))
}

// RandomKey returns a random key, absent when the database is empty.
func RandomKey(ctx context.Context, c DoContexter) (OptionalString, error) {
	return Optional(c.DoContext(ctx, "RANDOMKEY"))
}

// Type returns the type of the value at key, "none" when there is no key.
func Type(ctx context.Context, c DoContexter, key string) (string, error) {
	return Status(c.DoContext(ctx, "TYPE", key))
}

// LPush prepends values to the list at key and returns the new length.
func LPush(ctx context.Context, c DoContexter, key string, values ...interface{}) (int64, error) {
	return Int64(c.DoContext(ctx, "LPUSH", append([]interface{}{key}, values...)...))
}

// HMSet sets fields of the hash at key. pairs alternate fields and values.
func HMSet(ctx context.Context, c DoContexter, key string, pairs ...interface{}) (bool, error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return false, errors.New("redicore: HMSet requires field value pairs")
	}
	return Bool(c.DoContext(ctx, "HMSET", append([]interface{}{key}, pairs...)...))
}

// FlushDB removes all keys of the current database.
func FlushDB(ctx context.Context, c DoContexter) (bool, error) {
	return Bool(c.DoContext(ctx, "FLUSHDB"))
}

// Ping returns the status reply of PING, normally "PONG".
func Ping(ctx context.Context, c DoContexter) (string, error) {
	return Status(c.DoContext(ctx, "PING"))
}

// Info returns the INFO sections named by section, or the default
// sections when section is empty.
func Info(ctx context.Context, c DoContexter, section string) (ServerInfo, error) {
	if section == "" {
		return ParseInfo(c.DoContext(ctx, "INFO"))
	}
	return ParseInfo(c.DoContext(ctx, "INFO", section))
}

func stringArgs(ss []string) []interface{} {
	args := make([]interface{}, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}
