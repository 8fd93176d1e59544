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

// OptionalString is a bulk string reply that may be absent. An absent
// value means the key does not exist and is distinct from an empty string.
type OptionalString struct {
	Value string
	Valid bool
}

// Some returns a present OptionalString.
func Some(s string) OptionalString { return OptionalString{Value: s, Valid: true} }

func (s OptionalString) String() string {
	if !s.Valid {
		return "(nil)"
	}
	return s.Value
}

// OptionalInt is an integer slot that may be absent, such as a BITFIELD
// operation that overflowed in FAIL mode.
type OptionalInt struct {
	Value int64
	Valid bool
}

func (n OptionalInt) String() string {
	if !n.Valid {
		return "(nil)"
	}
	return strconv.FormatInt(n.Value, 10)
}

// DecimalString is a floating point number in the textual form sent by the
// server. The text is kept so that it round trips exactly.
type DecimalString string

// Float64 parses the decimal.
func (d DecimalString) Float64() (float64, error) {
	return strconv.ParseFloat(string(d), 64)
}

func (d DecimalString) String() string { return string(d) }

// ServerInfo is the parsed reply of the INFO command: fields by section name.
// Section names are lower case.
type ServerInfo map[string]map[string]string

// Get returns a field from any section.
func (info ServerInfo) Get(field string) (string, bool) {
	for _, section := range info {
		if v, ok := section[field]; ok {
			return v, true
		}
	}
	return "", false
}

func parseInfo(text string) ServerInfo {
	info := ServerInfo{}
	section := info[""]
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			name := strings.ToLower(strings.TrimSpace(line[1:]))
			section = info[name]
			if section == nil {
				section = map[string]string{}
				info[name] = section
			}
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		if section == nil {
			section = map[string]string{}
			info[""] = section
		}
		section[line[:i]] = line[i+1:]
	}
	return info
}
