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

// NoSort is a BY pattern without a "*" placeholder. It keeps the elements
// in their stored order while GET and LIMIT still apply.
const NoSort = "nosort"

// SortGetSelf is the GET pattern for the element itself.
const SortGetSelf = "#"

// SortOrder is the direction of SORT.
type SortOrder int

const (
	// SortDefault sends no order keyword; the server sorts ascending.
	SortDefault SortOrder = iota
	SortAsc
	SortDesc
)

// SortLimit selects Count elements starting at Offset.
type SortLimit struct {
	Offset, Count int64
}

// SortOptions holds the modifiers of SORT.
//
// By and Get patterns replace "*" with the element. A "->field" suffix reads
// the field of the resulting hash key, so "weight_*->kg" reads field kg of
// hash weight_<element>.
type SortOptions struct {
	By    string
	Limit *SortLimit
	Get   []string
	Order SortOrder
	// Alpha compares elements lexicographically instead of numerically.
	Alpha bool
	// Store saves the result in the list at this key. The reply is then the
	// number of stored elements.
	Store string
}

var errSortStore = errors.New("redicore: SORT with STORE replies with a count, use SortStore")

// Args returns the arguments of SORT key in the order
// [BY p] [LIMIT o c] [GET p]... [ASC|DESC] [ALPHA] [STORE dest].
func (o *SortOptions) Args(key string) []interface{} {
	args := []interface{}{key}
	if o == nil {
		return args
	}
	if o.By != "" {
		args = append(args, "BY", o.By)
	}
	if o.Limit != nil {
		args = append(args, "LIMIT", o.Limit.Offset, o.Limit.Count)
	}
	for _, p := range o.Get {
		args = append(args, "GET", p)
	}
	switch o.Order {
	case SortAsc:
		args = append(args, "ASC")
	case SortDesc:
		args = append(args, "DESC")
	}
	if o.Alpha {
		args = append(args, "ALPHA")
	}
	if o.Store != "" {
		args = append(args, "STORE", o.Store)
	}
	return args
}

// Sort runs SORT and returns the elements. Elements are absent where a GET
// pattern names a missing key. opts may be nil; opts.Store must be empty.
func Sort(ctx context.Context, c DoContexter, key string, opts *SortOptions) ([]OptionalString, error) {
	if opts != nil && opts.Store != "" {
		return nil, errSortStore
	}
	return Optionals(c.DoContext(ctx, "SORT", opts.Args(key)...))
}

// SortStore runs SORT with STORE dest and returns the number of elements
// stored. opts may be nil; its Store field is ignored.
func SortStore(ctx context.Context, c DoContexter, key, dest string, opts *SortOptions) (int64, error) {
	if dest == "" {
		return 0, errors.New("redicore: SortStore requires a destination key")
	}
	o := SortOptions{}
	if opts != nil {
		o = *opts
	}
	o.Store = dest
	return Int64(c.DoContext(ctx, "SORT", o.Args(key)...))
}
