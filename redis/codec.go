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
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	maxLineLength    = 64 * 1024
	maxBulkLength    = 512 * 1024 * 1024
	maxArrayLength   = math.MaxInt32
	maxArrayPrealloc = 1024
)

// Argument is implemented by types that control their own command argument
// encoding.
type Argument interface {
	RedisArg() interface{}
}

// Command is an ordered list of binary-safe arguments. The first argument
// is the command name.
type Command struct {
	args [][]byte
}

// NewCommand returns a command with the given name and arguments.
//
// Arguments of type string and []byte are sent as is. Integers, floats and
// booleans are formatted with strconv; nil is sent as an empty string. All
// other types are formatted using fmt.Fprint.
func NewCommand(name string, args ...interface{}) Command {
	cmd := Command{args: make([][]byte, 0, 1+len(args))}
	cmd.args = append(cmd.args, []byte(name))
	for _, arg := range args {
		cmd.args = append(cmd.args, formatArg(arg))
	}
	return cmd
}

func formatArg(arg interface{}) []byte {
	switch arg := arg.(type) {
	case string:
		return []byte(arg)
	case []byte:
		return arg
	case int:
		return strconv.AppendInt(nil, int64(arg), 10)
	case int64:
		return strconv.AppendInt(nil, arg, 10)
	case uint64:
		return strconv.AppendUint(nil, arg, 10)
	case float64:
		return strconv.AppendFloat(nil, arg, 'g', -1, 64)
	case bool:
		if arg {
			return []byte("1")
		}
		return []byte("0")
	case nil:
		return []byte{}
	case Argument:
		return formatArg(arg.RedisArg())
	default:
		var buf bytes.Buffer
		fmt.Fprint(&buf, arg)
		return buf.Bytes()
	}
}

// Name returns the command name in upper case.
func (c Command) Name() string {
	if len(c.args) == 0 {
		return ""
	}
	return strings.ToUpper(string(c.args[0]))
}

// Args returns the arguments including the command name.
func (c Command) Args() [][]byte { return c.args }

func (c Command) String() string {
	var sb strings.Builder
	for i, arg := range c.args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Quote(string(arg)))
	}
	return sb.String()
}

// AppendCommand appends the wire encoding of cmd to dst.
func AppendCommand(dst []byte, cmd Command) []byte {
	dst = appendHeader(dst, '*', int64(len(cmd.args)))
	for _, arg := range cmd.args {
		dst = appendHeader(dst, '$', int64(len(arg)))
		dst = append(dst, arg...)
		dst = append(dst, "\r\n"...)
	}
	return dst
}

func appendHeader(dst []byte, prefix byte, n int64) []byte {
	dst = append(dst, prefix)
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, "\r\n"...)
}

// ParseReply decodes the reply at the start of p and returns the reply and
// the number of bytes it occupies. Bytes following the reply are not
// examined.
//
// If p holds an incomplete reply, ParseReply returns a *ShortReplyError
// with the minimum number of additional bytes needed. ParseReply keeps no
// state, so the caller retries with the same bytes plus more data.
// Malformed input returns a *ProtocolError.
func ParseReply(p []byte) (Value, int, error) {
	v, count, n, err := parseElement(p)
	if err != nil {
		return Value{}, 0, err
	}
	if count == 0 {
		return v, n, nil
	}
	elems := make([]Value, 0, prealloc(count))
	for i := 0; i < count; i++ {
		e, m, err := ParseReply(p[n:])
		if err != nil {
			return Value{}, 0, err
		}
		elems = append(elems, e)
		n += m
	}
	return ArrayValue(elems...), n, nil
}

// parseElement decodes the scalar reply or array header at the start of p.
// For the header of a non-empty array, count is the number of elements
// that follow and v is unset. Otherwise count is 0 and v is complete.
func parseElement(p []byte) (v Value, count int, n int, err error) {
	line, n, err := parseLine(p)
	if err != nil {
		return Value{}, 0, 0, err
	}
	if len(line) == 0 {
		return Value{}, 0, 0, protocolError("short response line")
	}
	switch line[0] {
	case '+':
		return SimpleStringValue(string(line[1:])), 0, n, nil
	case '-':
		return ErrorValue(string(line[1:])), 0, n, nil
	case ':':
		i, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return Value{}, 0, 0, protocolError("malformed integer %q", line[1:])
		}
		return IntegerValue(i), 0, n, nil
	case '$':
		l, err := parseLen(line[1:], maxBulkLength)
		if err != nil {
			return Value{}, 0, 0, err
		}
		if l < 0 {
			return NullBulkString(), 0, n, nil
		}
		end := n + l + 2
		if len(p) < end {
			return Value{}, 0, 0, &ShortReplyError{Need: end - len(p)}
		}
		if p[end-2] != '\r' || p[end-1] != '\n' {
			return Value{}, 0, 0, protocolError("bad bulk string format")
		}
		b := make([]byte, l)
		copy(b, p[n:n+l])
		return BulkStringValue(b), 0, end, nil
	case '*':
		l, err := parseLen(line[1:], maxArrayLength)
		if err != nil {
			return Value{}, 0, 0, err
		}
		switch l {
		case -1:
			return NullArray(), 0, n, nil
		case 0:
			return ArrayValue(), 0, n, nil
		}
		return Value{}, l, n, nil
	}
	return Value{}, 0, 0, protocolError("unexpected response line type %q", line[0])
}

func prealloc(count int) int {
	if count > maxArrayPrealloc {
		return maxArrayPrealloc
	}
	return count
}

// replyDecoder decodes one reply across several buffers. Arrays under
// construction are kept on a stack, so elements already decoded are not
// parsed again when more bytes arrive.
type replyDecoder struct {
	stack []arrayFrame
}

type arrayFrame struct {
	elems []Value
	count int
}

// decode consumes whole elements from p and returns the number of bytes
// consumed. Consumed bytes belong to the decoder even when the reply is
// incomplete, in which case the error is a *ShortReplyError and the next
// call continues with the bytes that follow.
func (d *replyDecoder) decode(p []byte) (Value, int, error) {
	n := 0
	for {
		v, count, m, err := parseElement(p[n:])
		if err != nil {
			return Value{}, n, err
		}
		n += m
		if count > 0 {
			d.stack = append(d.stack, arrayFrame{elems: make([]Value, 0, prealloc(count)), count: count})
			continue
		}
		for {
			if len(d.stack) == 0 {
				return v, n, nil
			}
			top := &d.stack[len(d.stack)-1]
			top.elems = append(top.elems, v)
			if len(top.elems) < top.count {
				break
			}
			v = ArrayValue(top.elems...)
			d.stack = d.stack[:len(d.stack)-1]
		}
	}
}

// reset discards any partial reply.
func (d *replyDecoder) reset() {
	d.stack = d.stack[:0]
}

// parseLine returns the line at the start of p without its CRLF terminator
// and the number of bytes including the terminator.
func parseLine(p []byte) ([]byte, int, error) {
	i := bytes.IndexByte(p, '\n')
	if i < 0 {
		if len(p) >= maxLineLength {
			return nil, 0, protocolError("long response line")
		}
		return nil, 0, &ShortReplyError{Need: 1}
	}
	if i == 0 || p[i-1] != '\r' {
		return nil, 0, protocolError("bad response line terminator")
	}
	return p[:i-1], i + 1, nil
}

// parseLen parses a bulk or array length no greater than max. -1 is
// returned for the absent marker.
func parseLen(p []byte, max int) (int, error) {
	if len(p) == 0 {
		return 0, protocolError("malformed length")
	}
	if len(p) == 2 && p[0] == '-' && p[1] == '1' {
		return -1, nil
	}
	var n int
	for _, b := range p {
		if b < '0' || b > '9' {
			return 0, protocolError("illegal bytes in length %q", p)
		}
		d := int(b - '0')
		if n > (max-d)/10 {
			return 0, protocolError("length %q out of range", p)
		}
		n = n*10 + d
	}
	return n, nil
}
