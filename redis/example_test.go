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

package redis_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomodule/redicore/redis"
	"github.com/gomodule/redicore/redismock"
)

func ExampleAppendCommand() {
	p := redis.AppendCommand(nil, redis.NewCommand("SET", "greeting", "hello"))
	fmt.Printf("%q\n", p)
	// Output:
	// "*3\r\n$3\r\nSET\r\n$8\r\ngreeting\r\n$5\r\nhello\r\n"
}

func ExampleParseReply() {
	p := []byte("*2\r\n$5\r\nhello\r\n$-1\r\n+OK\r\n")
	v, n, err := redis.ParseReply(p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(v, n)

	_, _, err = redis.ParseReply(p[:10])
	var short *redis.ShortReplyError
	if errors.As(err, &short) {
		fmt.Println("need", short.Need, "more bytes")
	}
	// Output:
	// ["hello", (nil)] 20
	// need 5 more bytes
}

func ExampleConn_Pipeline() {
	c := redis.NewConn(newFakeTransport(":1\r\n-WRONGTYPE Operation against a key holding the wrong kind of value\r\n$1\r\n1\r\n"))
	defer c.Close()

	replies, err := c.Pipeline(context.Background(),
		redis.NewCommand("INCR", "a"),
		redis.NewCommand("LPUSH", "a", "x"),
		redis.NewCommand("GET", "a"))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, r := range replies {
		if err := r.Err(); err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(r)
	}
	// Output:
	// (integer) 1
	// error: WRONGTYPE Operation against a key holding the wrong kind of value
	// "1"
}

func ExampleBitfield() {
	c := redismock.New()
	c.ExpectDo("BITFIELD").
		WithArgs("bits", "OVERFLOW", "FAIL", "INCRBY", "u2", "102", 5).
		WillReturnReply(redis.ArrayValue(redis.NullBulkString()))

	version := redis.ServerVersion{Major: 7, Minor: 2, Micro: 4}
	res, err := redis.Bitfield(context.Background(), c, version, "bits",
		redis.BitfieldOverflow{Mode: redis.OverflowFail},
		redis.BitfieldIncrBy{Type: "u2", Offset: redis.BitOffset(102), Increment: 5})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res)

	_, err = redis.Bitfield(context.Background(), c, redis.ServerVersion{Major: 3}, "bits")
	fmt.Println(err)
	// Output:
	// [(nil)]
	// redicore: BITFIELD requires server 3.2.0, have 3.0.0
}

func ExampleSortOptions_Args() {
	opts := &redis.SortOptions{
		By:    "weight_*->kg",
		Get:   []string{"object_*->name", redis.SortGetSelf},
		Limit: &redis.SortLimit{Offset: 0, Count: 10},
		Order: redis.SortDesc,
	}
	fmt.Println(opts.Args("mylist"))
	// Output:
	// [mylist BY weight_*->kg LIMIT 0 10 GET object_*->name GET # DESC]
}

func ExampleScanner() {
	c := redismock.New()
	c.ExpectDo("SCAN").WithArgs(0, "MATCH", "user:*").
		WillReturnReply(redis.ArrayValue(redis.BulkStringValue([]byte("9")), redis.ArrayValue(redis.BulkStringValue([]byte("user:1")))))
	c.ExpectDo("SCAN").WithArgs(9, "MATCH", "user:*").
		WillReturnReply(redis.ArrayValue(redis.BulkStringValue([]byte("0")), redis.ArrayValue(redis.BulkStringValue([]byte("user:2")))))

	s := redis.NewScanner(c, &redis.ScanOptions{Match: "user:*"})
	for s.Next(context.Background()) {
		fmt.Println(s.Keys())
	}
	if err := s.Err(); err != nil {
		fmt.Println(err)
	}
	// Output:
	// [user:1]
	// [user:2]
}
