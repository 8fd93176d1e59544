package redismock

import (
	"context"
	"fmt"

	"github.com/gomodule/redicore/redis"
)

// Mock describes a mock and the actions
type Mock interface {
	WithArgs(...interface{}) Mock
	WillReturnError(error) Mock
	WillReturnConnectionError(error) Mock
	WillReturnReply(redis.Value) Mock
}

// Conn is a mock redis.Conn to be used in unit tests
type Conn struct {
	// Expectations on this conn
	expectations []expectation
	active       expectation
}

var _ redis.Conn = (*Conn)(nil)

// New returns a new redis.Conn mock
func New() *Conn {
	return &Conn{
		expectations: []expectation{},
	}
}

// will return the next unfulfilled expectation
func (c *Conn) next() expectation {
	for _, e := range c.expectations {
		if !e.fulfilled() {
			return e
		}
	}
	return nil
}

// Close will return an error if there are remaining unfulfilled expectations
//
// When writing unit tests, make sure to always close the Conns and check for errors.
func (c *Conn) Close() (err error) {
	if e := c.next(); e != nil {
		err = fmt.Errorf("there is an unfulfilled expectation %T", e)
	}
	c.expectations = []expectation{}
	c.active = nil
	return err
}

// Err will return an error if the active expectation was set with
// Conn.WillReturnConnectionError()
func (c *Conn) Err() error {
	if c.active == nil {
		return nil
	}
	return c.active.connectionError()
}

// Do acts like a redis.Do and will return errors if expectations are not fulfilled
func (c *Conn) Do(commandName string, args ...interface{}) (redis.Value, error) {
	return c.Execute(context.Background(), redis.NewCommand(commandName, args...))
}

// DoContext is like Do but returns ctx.Err() when ctx is done, without
// consuming an expectation.
func (c *Conn) DoContext(ctx context.Context, commandName string, args ...interface{}) (redis.Value, error) {
	return c.Execute(ctx, redis.NewCommand(commandName, args...))
}

// Execute matches cmd against the next Do expectation. An error reply set
// with WillReturnReply is also returned as the error, as redis.Conn does.
func (c *Conn) Execute(ctx context.Context, cmd redis.Command) (redis.Value, error) {
	if err := ctx.Err(); err != nil {
		return redis.Value{}, err
	}
	e, err := c.nextDo(cmd)
	if err != nil {
		return redis.Value{}, err
	}
	e.triggered = true
	if err := e.error(); err != nil {
		return redis.Value{}, err
	}
	return e.reply(), e.reply().Err()
}

// Pipeline matches each command against the next Do expectation in turn.
// Error replies stay in their slot; an expectation set with
// WillReturnError fails the whole pipeline.
func (c *Conn) Pipeline(ctx context.Context, cmds ...redis.Command) ([]redis.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	replies := make([]redis.Value, len(cmds))
	for i, cmd := range cmds {
		e, err := c.nextDo(cmd)
		if err != nil {
			return nil, err
		}
		e.triggered = true
		if err := e.error(); err != nil {
			return nil, err
		}
		replies[i] = e.reply()
	}
	return replies, nil
}

func (c *Conn) nextDo(cmd redis.Command) (*doExpectation, error) {
	commandName, args := split(cmd)
	exp := c.next()
	if exp == nil {
		return nil, fmt.Errorf("all expectations were fulfilled. got extra Do command: %s", cmd)
	}
	e, ok := exp.(*doExpectation)
	if !ok {
		return nil, fmt.Errorf("calling Do with command %s was not expected. expecting %T with %+v", cmd, exp, exp)
	}
	if !e.commandMatches(commandName) {
		return nil, fmt.Errorf("called Do with command %s, but expected %s in %+v", cmd, e.command(), e)
	}
	if !e.argsMatches(args) {
		return nil, fmt.Errorf("called Do with command %s. did not match expected args %+v", cmd, e.args())
	}
	return e, nil
}

func split(cmd redis.Command) (string, [][]byte) {
	args := cmd.Args()
	if len(args) == 0 {
		return "", nil
	}
	return string(args[0]), args[1:]
}

// Send acts like a redis.Send() and will return errors if expectations are not fulfilled
func (c *Conn) Send(commandName string, args ...interface{}) error {
	cmd := redis.NewCommand(commandName, args...)
	_, encoded := split(cmd)
	exp := c.next()
	if exp == nil {
		return fmt.Errorf("all expectations were fulfilled. got extra Send command: %s", cmd)
	}
	e, ok := exp.(*sendExpectation)
	if !ok {
		return fmt.Errorf("calling Send with command %s was not expected. expecting %T with %+v", cmd, exp, exp)
	}
	if !e.commandMatches(commandName) {
		return fmt.Errorf("called Send with command %s, but expected %s in %+v", cmd, e.command(), e)
	}
	if !e.argsMatches(encoded) {
		return fmt.Errorf("called Send with command %s. did not match expected args %+v", cmd, e.args())
	}
	e.triggered = true
	return e.error()
}

// Flush acts like a redis.Flush() and will return errors if expectations are not fulfilled
func (c *Conn) Flush() error {
	exp := c.next()
	if exp == nil {
		return fmt.Errorf("all expectations were fulfilled. got extra Flush command")
	}
	e, ok := exp.(*flushExpectation)
	if !ok {
		return fmt.Errorf("calling Flush was not expected. expecting %T with %+v", exp, exp)
	}
	e.triggered = true
	return e.error()
}

// Receive acts like a redis.Receive() and will return errors if expectations are not fulfilled
func (c *Conn) Receive() (redis.Value, error) {
	exp := c.next()
	if exp == nil {
		return redis.Value{}, fmt.Errorf("all expectations were fulfilled. got extra Receive command")
	}
	e, ok := exp.(*receiveExpectation)
	if !ok {
		return redis.Value{}, fmt.Errorf("calling Receive was not expected. expecting %T with %+v", exp, exp)
	}
	e.triggered = true
	if err := e.error(); err != nil {
		return redis.Value{}, err
	}
	return e.reply(), e.reply().Err()
}

// ExpectDo tells the mock to expect a Do() with a given command next
//
// You can chain WithArgs(), WillReturnError(), WillReturnConnectionError() and
// WillReturnReply() on a Do expectation. Execute, DoContext and each command
// of a Pipeline also satisfy a Do expectation.
func (c *Conn) ExpectDo(command string) Mock {
	exp := &doExpectation{}
	exp.cmd = command
	c.expectations = append(c.expectations, exp)
	c.active = exp
	return c
}

// ExpectSend tells the mock to expect a Send() with a given command next
//
// You can chain WithArgs(), WillReturnError(), WillReturnConnectionError() on a Send expectation
func (c *Conn) ExpectSend(command string) Mock {
	exp := &sendExpectation{}
	exp.cmd = command
	c.expectations = append(c.expectations, exp)
	c.active = exp
	return c
}

// ExpectReceive tells the mock to expect a Receive() next
//
// You can chain WillReturnError(), WillReturnConnectionError() and
// WillReturnReply() on a Receive expectation
func (c *Conn) ExpectReceive() Mock {
	exp := &receiveExpectation{}
	c.expectations = append(c.expectations, exp)
	c.active = exp
	return c
}

// ExpectFlush tells the mock to expect a Flush()
//
// The Flush() call will return an error if WillReturnError() is set.
func (c *Conn) ExpectFlush() Mock {
	exp := &flushExpectation{}
	c.expectations = append(c.expectations, exp)
	c.active = exp
	return c
}

// WithArgs will expect args. Use Any{} for an argument that may take any
// value.
func (c *Conn) WithArgs(args ...interface{}) Mock {
	if c.active == nil {
		panic("no active expectation")
	}
	if exp, ok := c.active.(argsExpecter); !ok {
		panic("current expectation does not support args")
	} else {
		exp.setArgs(args)
	}
	return c
}

// WillReturnError will return an error when the current expectation is executed
func (c *Conn) WillReturnError(err error) Mock {
	if c.active == nil {
		panic("no active expectation")
	}
	c.active.setError(err)
	return c
}

// WillReturnConnectionError sets up the Conn to return an error on
// Conn.Err()
func (c *Conn) WillReturnConnectionError(err error) Mock {
	if c.active == nil {
		panic("no active expectation")
	}
	c.active.setConnectionErr(err)
	return c
}

// WillReturnReply will return the given reply when the current expectation is executed
func (c *Conn) WillReturnReply(reply redis.Value) Mock {
	if c.active == nil {
		panic("no active expectation")
	}
	if exp, ok := c.active.(replyExpecter); !ok {
		panic("current expectation does not support a reply")
	} else {
		exp.setReply(reply)
	}
	return c
}
