package redismock

import (
	"bytes"
	"strings"

	"github.com/gomodule/redicore/redis"
)

// Any matches any argument in WithArgs.
type Any struct{}

// a general expectation
type expectation interface {
	fulfilled() bool
	setError(err error)
	error() error
	setConnectionErr(err error)
	connectionError() error
}

type commonExpectation struct {
	triggered     bool
	err           error
	connectionErr error
}

func (e *commonExpectation) fulfilled() bool {
	return e.triggered
}

func (e *commonExpectation) setError(err error) {
	e.err = err
}

func (e *commonExpectation) error() error {
	return e.err
}

func (e *commonExpectation) setConnectionErr(err error) {
	e.connectionErr = err
}

func (e *commonExpectation) connectionError() error {
	return e.connectionErr
}

// an expectation that can accept a command
type commandExpectation struct {
	cmd string
}

func (c *commandExpectation) command() string {
	return c.cmd
}

func (c *commandExpectation) commandMatches(cmd string) bool {
	return strings.EqualFold(c.cmd, cmd)
}

type argsExpecter interface {
	expectation
	setArgs([]interface{})
	args() []interface{}
	argsMatches([][]byte) bool
}

// any expectation that can accept args
type argsExpectation struct {
	a []interface{}
}

func (a *argsExpectation) setArgs(args []interface{}) {
	a.a = args
}

func (a *argsExpectation) args() []interface{} {
	return a.a
}

// argsMatches compares the wire form of the expected and actual arguments,
// so 1, int64(1) and "1" all match.
func (a *argsExpectation) argsMatches(args [][]byte) bool {
	if a.a == nil {
		return true
	}
	if len(a.a) != len(args) {
		return false
	}
	want := redis.NewCommand("", a.a...).Args()[1:]
	for i, arg := range args {
		if _, ok := a.a[i].(Any); ok {
			continue
		}
		if !bytes.Equal(want[i], arg) {
			return false
		}
	}
	return true
}

type replyExpecter interface {
	expectation
	setReply(redis.Value)
	reply() redis.Value
}

// any expectation that can return a reply
type replyExpectation struct {
	rep redis.Value
}

func (r *replyExpectation) setReply(reply redis.Value) {
	r.rep = reply
}

func (r *replyExpectation) reply() redis.Value {
	return r.rep
}

type doExpectation struct {
	commonExpectation
	commandExpectation
	argsExpectation
	replyExpectation
}

type sendExpectation struct {
	commonExpectation
	commandExpectation
	argsExpectation
}

type flushExpectation struct {
	commonExpectation
}

type receiveExpectation struct {
	commonExpectation
	replyExpectation
}
