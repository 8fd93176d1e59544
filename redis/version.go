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
	"strings"
)

// ServerVersion is the version of a Redis server. Obtain it once per
// connection with FetchServerVersion and pass it to version gated commands.
type ServerVersion struct {
	Major, Minor, Micro int
}

// ParseServerVersion parses a version of the form major.minor.micro as
// reported in the redis_version field of INFO. Missing components are zero
// and a trailing pre-release suffix such as "-rc1" is ignored.
func ParseServerVersion(s string) (ServerVersion, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "-+ "); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if s == "" || len(parts) > 3 {
		return ServerVersion{}, fmt.Errorf("redicore: malformed server version %q", s)
	}
	var n [3]int
	for i, p := range parts {
		x, err := strconv.Atoi(p)
		if err != nil || x < 0 {
			return ServerVersion{}, fmt.Errorf("redicore: malformed server version %q", s)
		}
		n[i] = x
	}
	return ServerVersion{Major: n[0], Minor: n[1], Micro: n[2]}, nil
}

// Compare returns -1, 0 or +1 when v is lower than, equal to or higher
// than w, comparing major, then minor, then micro.
func (v ServerVersion) Compare(w ServerVersion) int {
	switch {
	case v.Major != w.Major:
		return sign(v.Major - w.Major)
	case v.Minor != w.Minor:
		return sign(v.Minor - w.Minor)
	default:
		return sign(v.Micro - w.Micro)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// IsAtLeast reports whether v is major.minor.micro or newer.
func (v ServerVersion) IsAtLeast(major, minor, micro int) bool {
	return v.Compare(ServerVersion{major, minor, micro}) >= 0
}

func (v ServerVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

// Supports reports whether the server accepts the named command. Commands
// missing from the capability table are assumed supported.
func (v ServerVersion) Supports(commandName string) bool {
	min, ok := lookupMinVersion(commandName)
	return !ok || v.Compare(min) >= 0
}

// require returns an *UnsupportedError when v is older than the version
// that introduced commandName.
func (v ServerVersion) require(commandName string) error {
	if min, ok := lookupMinVersion(commandName); ok && v.Compare(min) < 0 {
		return &UnsupportedError{Command: strings.ToUpper(commandName), Required: min, Server: v}
	}
	return nil
}

// FetchServerVersion reads the server version with INFO server.
func FetchServerVersion(ctx context.Context, c DoContexter) (ServerVersion, error) {
	info, err := Info(ctx, c, "server")
	if err != nil {
		return ServerVersion{}, err
	}
	s, ok := info.Get("redis_version")
	if !ok {
		return ServerVersion{}, &MappingError{Mapper: "FetchServerVersion", Kind: KindBulkString, Detail: "redis_version missing"}
	}
	return ParseServerVersion(s)
}
