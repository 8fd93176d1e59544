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
)

// The helpers in this file convert a reply to the type promised by a
// command. They take the (Value, error) pair returned by Do so calls
// compose:
//
//  n, err := redis.Int64(c.Do("INCR", "counter"))
//
// A non-nil err, or an error reply, is returned unchanged. A reply of the
// wrong shape returns a *MappingError.

func replyErr(v Value, err error) error {
	if err != nil {
		return err
	}
	return v.Err()
}

// Int64 is a helper that converts an integer reply to an int64.
//
//  Reply type    Result
//  integer       return reply
//  error         return error
//  other         return *MappingError
func Int64(v Value, err error) (int64, error) {
	if err := replyErr(v, err); err != nil {
		return 0, err
	}
	n, ok := v.AsInteger()
	if !ok {
		return 0, mappingError("Int64", v)
	}
	return n, nil
}

// Int is like Int64 but returns an int.
func Int(v Value, err error) (int, error) {
	n, err := Int64(v, err)
	if err != nil {
		return 0, err
	}
	x := int(n)
	if int64(x) != n {
		return 0, &MappingError{Mapper: "Int", Kind: KindInteger, Detail: strconv.ErrRange.Error()}
	}
	return x, nil
}

// Bool is a helper that converts a reply to a bool.
//
//  Reply type      Result
//  status OK       return true
//  absent, nil     return false
//  integer         return value != 0
//  error           return error
//  other           return *MappingError
func Bool(v Value, err error) (bool, error) {
	if err := replyErr(v, err); err != nil {
		return false, err
	}
	switch v.Kind() {
	case KindNil:
		return false, nil
	case KindInteger:
		n, _ := v.AsInteger()
		return n != 0, nil
	case KindSimpleString:
		if s, _ := v.AsString(); s == "OK" {
			return true, nil
		}
	case KindBulkString, KindArray:
		if v.IsNull() {
			return false, nil
		}
	}
	return false, mappingError("Bool", v)
}

// String is a helper that converts a bulk or status reply to a string.
// An absent reply returns ErrNil.
func String(v Value, err error) (string, error) {
	if err := replyErr(v, err); err != nil {
		return "", err
	}
	if v.IsNil() {
		return "", ErrNil
	}
	s, ok := v.AsString()
	if !ok {
		return "", mappingError("String", v)
	}
	return s, nil
}

// Bytes is like String but returns a []byte.
func Bytes(v Value, err error) ([]byte, error) {
	if err := replyErr(v, err); err != nil {
		return nil, err
	}
	if v.IsNil() {
		return nil, ErrNil
	}
	p, ok := v.AsBytes()
	if !ok {
		return nil, mappingError("Bytes", v)
	}
	return p, nil
}

// Status is a helper that converts a status reply to a string.
func Status(v Value, err error) (string, error) {
	if err := replyErr(v, err); err != nil {
		return "", err
	}
	if v.Kind() != KindSimpleString {
		return "", mappingError("Status", v)
	}
	s, _ := v.AsString()
	return s, nil
}

// Optional is a helper that converts a bulk reply that may be absent, as
// returned by GET.
//
//  Reply type      Result
//  bulk, status    return present value
//  absent, nil     return absent value
//  error           return error
//  other           return *MappingError
func Optional(v Value, err error) (OptionalString, error) {
	if err := replyErr(v, err); err != nil {
		return OptionalString{}, err
	}
	return optional("Optional", v)
}

func optional(mapper string, v Value) (OptionalString, error) {
	if v.Kind() == KindNil || (v.Kind() == KindBulkString && v.IsNull()) {
		return OptionalString{}, nil
	}
	s, ok := v.AsString()
	if !ok {
		return OptionalString{}, mappingError(mapper, v)
	}
	return Some(s), nil
}

// Values is a helper that converts an array reply to a []Value. An absent
// array returns ErrNil.
func Values(v Value, err error) ([]Value, error) {
	if err := replyErr(v, err); err != nil {
		return nil, err
	}
	if v.Kind() == KindArray && v.IsNull() {
		return nil, ErrNil
	}
	elems, ok := v.AsArray()
	if !ok {
		return nil, mappingError("Values", v)
	}
	return elems, nil
}

// Optionals is a helper that converts an array reply whose elements may be
// absent, as returned by MGET and SORT. Each element maps independently, so
// the result has one slot per array element.
func Optionals(v Value, err error) ([]OptionalString, error) {
	elems, err := Values(v, err)
	if err != nil {
		return nil, err
	}
	result := make([]OptionalString, len(elems))
	for i, e := range elems {
		if result[i], err = optional("Optionals", e); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Strings is a helper that converts an array of present bulk or status
// replies to a []string.
func Strings(v Value, err error) ([]string, error) {
	elems, err := Values(v, err)
	if err != nil {
		return nil, err
	}
	result := make([]string, len(elems))
	for i, e := range elems {
		s, ok := e.AsString()
		if !ok {
			return nil, mappingError("Strings", e)
		}
		result[i] = s
	}
	return result, nil
}

// OptionalInts is a helper that converts an array of integers that may be
// absent, as returned by BITFIELD.
func OptionalInts(v Value, err error) ([]OptionalInt, error) {
	elems, err := Values(v, err)
	if err != nil {
		return nil, err
	}
	result := make([]OptionalInt, len(elems))
	for i, e := range elems {
		if e.IsNil() {
			continue
		}
		n, ok := e.AsInteger()
		if !ok {
			return nil, mappingError("OptionalInts", e)
		}
		result[i] = OptionalInt{Value: n, Valid: true}
	}
	return result, nil
}

// Decimal is a helper that converts a bulk reply holding a floating point
// number, as returned by INCRBYFLOAT.
func Decimal(v Value, err error) (DecimalString, error) {
	if err := replyErr(v, err); err != nil {
		return "", err
	}
	if v.Kind() != KindBulkString || v.IsNull() {
		return "", mappingError("Decimal", v)
	}
	s, _ := v.AsString()
	d := DecimalString(s)
	if _, err := d.Float64(); err != nil {
		return "", &MappingError{Mapper: "Decimal", Kind: v.Kind(), Detail: strconv.Quote(s) + " is not a number"}
	}
	return d, nil
}

// ParseInfo is a helper that converts the bulk reply of INFO.
func ParseInfo(v Value, err error) (ServerInfo, error) {
	if err := replyErr(v, err); err != nil {
		return nil, err
	}
	if v.Kind() != KindBulkString || v.IsNull() {
		return nil, mappingError("ParseInfo", v)
	}
	s, _ := v.AsString()
	return parseInfo(s), nil
}
