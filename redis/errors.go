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
	"errors"
	"fmt"
	"strings"
)

// ErrNil indicates that a reply value is nil where the caller required a
// value.
var ErrNil = errors.New("redicore: nil returned")

var errClosed = errors.New("redicore: connection closed")

// ServerError represents an error returned in a command reply. The
// connection remains usable after a ServerError.
type ServerError string

func (err ServerError) Error() string { return string(err) }

// Code returns the error code prefix of the reply, for example "WRONGTYPE"
// or "ERR". Code returns "" when the server did not send a code.
func (err ServerError) Code() string {
	s := string(err)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	if s == "" || strings.ToUpper(s) != s || strings.IndexFunc(s, isNotCodeRune) >= 0 {
		return ""
	}
	return s
}

// Message returns the error text with the code prefix removed.
func (err ServerError) Message() string {
	code := err.Code()
	if code == "" {
		return string(err)
	}
	return strings.TrimPrefix(string(err)[len(code):], " ")
}

func isNotCodeRune(r rune) bool {
	return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-')
}

// ProtocolError is returned when the server sends bytes that are not a
// valid reply. The connection is not usable after a ProtocolError.
type ProtocolError struct {
	message string
}

func protocolError(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{message: fmt.Sprintf(format, args...)}
}

func (err *ProtocolError) Error() string {
	return "redicore: " + err.message
}

// MappingError is returned when a well formed reply does not have the shape
// promised by the command. It indicates a bug or a server version mismatch
// and is never retried.
type MappingError struct {
	Mapper string
	Kind   Kind
	Detail string
}

func (err *MappingError) Error() string {
	if err.Detail != "" {
		return fmt.Sprintf("redicore: %s: unexpected %s reply: %s", err.Mapper, err.Kind, err.Detail)
	}
	return fmt.Sprintf("redicore: %s: unexpected %s reply", err.Mapper, err.Kind)
}

func mappingError(mapper string, v Value) *MappingError {
	return &MappingError{Mapper: mapper, Kind: v.Kind()}
}

// TransportError wraps a failed read or write on the transport. The
// connection is not usable after a TransportError.
type TransportError struct {
	Op  string
	Err error
}

func (err *TransportError) Error() string {
	return "redicore: " + err.Op + ": " + err.Err.Error()
}

func (err *TransportError) Unwrap() error { return err.Err }

// ShortReplyError is returned by ParseReply when the buffer ends before the
// reply is complete. Need is the minimum number of additional bytes
// required before parsing can make progress.
type ShortReplyError struct {
	Need int
}

func (err *ShortReplyError) Error() string {
	return fmt.Sprintf("redicore: short reply, need %d more bytes", err.Need)
}

// UnsupportedError is returned by version gated commands when the server
// is older than the version that introduced the command.
type UnsupportedError struct {
	Command  string
	Required ServerVersion
	Server   ServerVersion
}

func (err *UnsupportedError) Error() string {
	return fmt.Sprintf("redicore: %s requires server %s, have %s", err.Command, err.Required, err.Server)
}

// isFatal reports whether err leaves the connection unusable.
func isFatal(err error) bool {
	var pe *ProtocolError
	var te *TransportError
	return errors.As(err, &pe) || errors.As(err, &te)
}
