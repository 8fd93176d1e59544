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
	"strconv"
	"strings"
)

// Kind identifies the case of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindInteger
	KindSimpleString
	KindBulkString
	KindError
	KindArray
)

var kindNames = [...]string{
	KindNil:          "nil",
	KindInteger:      "integer",
	KindSimpleString: "simple string",
	KindBulkString:   "bulk string",
	KindError:        "error",
	KindArray:        "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a decoded reply. The zero Value is Nil.
//
//  Redis type      Kind               Accessor
//  nil             KindNil            IsNil
//  integer         KindInteger        AsInteger
//  status          KindSimpleString   AsString, AsBytes
//  bulk            KindBulkString     AsString, AsBytes, IsNull for $-1
//  error           KindError          AsError, Err
//  multi-bulk      KindArray          AsArray, IsNull for *-1
//
// Accessors report ok == false instead of panicking when the value has a
// different kind. Values are immutable; callers must not modify the slices
// returned by AsBytes and AsArray.
type Value struct {
	kind  Kind
	null  bool
	n     int64
	b     []byte
	elems []Value
}

// NilValue returns the Nil value.
func NilValue() Value { return Value{} }

func IntegerValue(n int64) Value { return Value{kind: KindInteger, n: n} }

func SimpleStringValue(s string) Value { return Value{kind: KindSimpleString, b: []byte(s)} }

// BulkStringValue returns a present bulk string. A nil p is an empty
// string, not an absent one.
func BulkStringValue(p []byte) Value {
	if p == nil {
		p = []byte{}
	}
	return Value{kind: KindBulkString, b: p}
}

// NullBulkString returns the absent bulk string ($-1).
func NullBulkString() Value { return Value{kind: KindBulkString, null: true} }

func ErrorValue(message string) Value { return Value{kind: KindError, b: []byte(message)} }

// ArrayValue returns a present array. A nil slice is an empty array.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, elems: elems}
}

// NullArray returns the absent array (*-1).
func NullArray() Value { return Value{kind: KindArray, null: true} }

func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is an absent bulk string or absent array.
func (v Value) IsNull() bool { return v.null }

// IsNil reports whether v carries no data: the Nil value or an absent bulk
// string or array.
func (v Value) IsNil() bool { return v.kind == KindNil || v.null }

func (v Value) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.n, true
}

// AsBytes returns the payload of a present bulk string or a simple string.
func (v Value) AsBytes() ([]byte, bool) {
	if (v.kind != KindBulkString && v.kind != KindSimpleString) || v.null {
		return nil, false
	}
	return v.b, true
}

// AsString is like AsBytes but returns a string.
func (v Value) AsString() (string, bool) {
	p, ok := v.AsBytes()
	return string(p), ok
}

// AsArray returns the elements of a present array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray || v.null {
		return nil, false
	}
	return v.elems, true
}

// AsError returns the message of an error value.
func (v Value) AsError() (string, bool) {
	if v.kind != KindError {
		return "", false
	}
	return string(v.b), true
}

// Err returns the value as a ServerError if it is an error value, nil
// otherwise.
func (v Value) Err() error {
	if v.kind != KindError {
		return nil
	}
	return ServerError(v.b)
}

// Len returns the number of elements of an array, the length of a string
// and zero for all other values.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindBulkString, KindSimpleString, KindError:
		return len(v.b)
	}
	return 0
}

// String returns a debug representation of v.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindNil:
		sb.WriteString("(nil)")
	case KindInteger:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(v.n, 10))
	case KindSimpleString:
		sb.Write(v.b)
	case KindError:
		sb.WriteString("(error) ")
		sb.Write(v.b)
	case KindBulkString:
		if v.null {
			sb.WriteString("(nil)")
			return
		}
		sb.WriteString(strconv.Quote(string(v.b)))
	case KindArray:
		if v.null {
			sb.WriteString("(nil array)")
			return
		}
		sb.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.format(sb)
		}
		sb.WriteByte(']')
	}
}
