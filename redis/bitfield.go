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
	"fmt"
	"strconv"
)

// OverflowMode selects how BITFIELD SET and INCRBY handle overflow.
type OverflowMode string

const (
	// OverflowWrap wraps around, the default.
	OverflowWrap OverflowMode = "WRAP"
	// OverflowSat saturates at the minimum or maximum value.
	OverflowSat OverflowMode = "SAT"
	// OverflowFail skips the operation and returns an absent slot.
	OverflowFail OverflowMode = "FAIL"
)

// BitfieldOp is one operation of a BITFIELD command. It is one of
// BitfieldGet, BitfieldSet, BitfieldIncrBy and BitfieldOverflow.
//
// Type is a signed or unsigned width such as "i5" or "u8". Offset is a bit
// offset such as "100", or "#N" for N times the type width; see BitOffset
// and TypeOffset.
type BitfieldOp interface {
	appendArgs(args []interface{}) ([]interface{}, error)
}

type BitfieldGet struct {
	Type   string
	Offset string
}

type BitfieldSet struct {
	Type   string
	Offset string
	Value  int64
}

type BitfieldIncrBy struct {
	Type      string
	Offset    string
	Increment int64
}

// BitfieldOverflow changes the overflow mode of the SET and INCRBY
// operations that follow it in the same command.
type BitfieldOverflow struct {
	Mode OverflowMode
}

// BitOffset returns an offset in bits.
func BitOffset(n int64) string { return strconv.FormatInt(n, 10) }

// TypeOffset returns an offset of n times the width of the operation type.
func TypeOffset(n int64) string { return "#" + strconv.FormatInt(n, 10) }

func (op BitfieldGet) appendArgs(args []interface{}) ([]interface{}, error) {
	if err := checkBitfield(op.Type, op.Offset); err != nil {
		return nil, err
	}
	return append(args, "GET", op.Type, op.Offset), nil
}

func (op BitfieldSet) appendArgs(args []interface{}) ([]interface{}, error) {
	if err := checkBitfield(op.Type, op.Offset); err != nil {
		return nil, err
	}
	return append(args, "SET", op.Type, op.Offset, op.Value), nil
}

func (op BitfieldIncrBy) appendArgs(args []interface{}) ([]interface{}, error) {
	if err := checkBitfield(op.Type, op.Offset); err != nil {
		return nil, err
	}
	return append(args, "INCRBY", op.Type, op.Offset, op.Increment), nil
}

func (op BitfieldOverflow) appendArgs(args []interface{}) ([]interface{}, error) {
	switch op.Mode {
	case OverflowWrap, OverflowSat, OverflowFail:
		return append(args, "OVERFLOW", string(op.Mode)), nil
	}
	return nil, fmt.Errorf("redicore: invalid BITFIELD overflow mode %q", op.Mode)
}

// checkBitfield validates a type specifier (i1 to i64, u1 to u63) and an
// offset (a non-negative integer, optionally prefixed with #).
func checkBitfield(typ, offset string) error {
	if len(typ) < 2 || (typ[0] != 'i' && typ[0] != 'u') {
		return fmt.Errorf("redicore: invalid BITFIELD type %q", typ)
	}
	bits, err := strconv.Atoi(typ[1:])
	max := 64
	if typ[0] == 'u' {
		max = 63
	}
	if err != nil || bits < 1 || bits > max {
		return fmt.Errorf("redicore: invalid BITFIELD type %q", typ)
	}
	o := offset
	if len(o) > 0 && o[0] == '#' {
		o = o[1:]
	}
	if _, err := strconv.ParseUint(o, 10, 64); err != nil {
		return fmt.Errorf("redicore: invalid BITFIELD offset %q", offset)
	}
	return nil
}

// BitfieldArgs returns the arguments of BITFIELD key ops... in the order
// given. An OVERFLOW operation affects only the operations after it.
func BitfieldArgs(key string, ops ...BitfieldOp) ([]interface{}, error) {
	args := make([]interface{}, 0, 1+4*len(ops))
	args = append(args, key)
	var err error
	for _, op := range ops {
		if op == nil {
			return nil, fmt.Errorf("redicore: nil BITFIELD operation")
		}
		if args, err = op.appendArgs(args); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// Bitfield runs BITFIELD on key. The result has one slot per operation
// other than BitfieldOverflow; a slot is absent when the operation
// overflowed in FAIL mode. BITFIELD requires server 3.2.0.
func Bitfield(ctx context.Context, c DoContexter, version ServerVersion, key string, ops ...BitfieldOp) ([]OptionalInt, error) {
	if err := version.require("BITFIELD"); err != nil {
		return nil, err
	}
	args, err := BitfieldArgs(key, ops...)
	if err != nil {
		return nil, err
	}
	return OptionalInts(c.DoContext(ctx, "BITFIELD", args...))
}
