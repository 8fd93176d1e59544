package redis

import (
	"fmt"
	"time"
)

const (
	// ExpireSecondsOption time
	ExpireSecondsOption = "EX"

	// ExpireMillisecondsOption time
	ExpireMillisecondsOption = "PX"

	// ExistOption sets the key only if it exists
	ExistOption = "XX"

	// NotExistOption sets the key only if it does not exist
	NotExistOption = "NX"

	// KeepTTLOption retains the time to live of the key
	KeepTTLOption = "KEEPTTL"
)

// SetOptions holds the modifiers of SET.
type SetOptions struct {
	expireSecond      int64
	expireMilliSecond int64
	notExist          bool
	exist             bool
	keepTTL           bool
}

// SetOption is a function option for SET
type SetOption func(*SetOptions)

// Build returns the modifier arguments following SET key value.
func (options *SetOptions) Build() ([]interface{}, error) {
	var op []interface{}
	if options == nil {
		return op, nil
	}

	if options.exist && options.notExist {
		return nil, fmt.Errorf("redicore: SET accepts either XX or NX, not both")
	}

	if options.expireSecond > 0 && options.expireMilliSecond > 0 {
		return nil, fmt.Errorf("redicore: SET accepts either EX or PX, not both")
	}

	if options.keepTTL && (options.expireSecond > 0 || options.expireMilliSecond > 0) {
		return nil, fmt.Errorf("redicore: SET KEEPTTL cannot be combined with an expiry")
	}

	if options.expireSecond > 0 {
		op = append(op, ExpireSecondsOption, options.expireSecond)
	}

	if options.expireMilliSecond > 0 {
		op = append(op, ExpireMillisecondsOption, options.expireMilliSecond)
	}

	if options.keepTTL {
		op = append(op, KeepTTLOption)
	}

	if options.exist {
		op = append(op, ExistOption)
	}

	if options.notExist {
		op = append(op, NotExistOption)
	}

	return op, nil
}

// WithExpireSecond set expire time
func WithExpireSecond(ex int64) SetOption {
	return func(options *SetOptions) {
		options.expireSecond = ex
	}
}

// WithExpireMillisecond is expire in millisecond
func WithExpireMillisecond(ex int64) SetOption {
	return func(options *SetOptions) {
		options.expireMilliSecond = ex
	}
}

// WithExpire expires the key after d. Whole seconds are sent as EX, other
// durations as PX rounded up to the next millisecond.
func WithExpire(d time.Duration) SetOption {
	return func(options *SetOptions) {
		if d%time.Second == 0 {
			options.expireSecond = int64(d / time.Second)
			return
		}
		options.expireMilliSecond = int64((d + time.Millisecond - 1) / time.Millisecond)
	}
}

// WithExist sets the key only if it already exists
func WithExist() SetOption {
	return func(options *SetOptions) {
		options.exist = true
	}
}

// WithNotExist sets the key only if it does not exist
func WithNotExist() SetOption {
	return func(options *SetOptions) {
		options.notExist = true
	}
}

// WithKeepTTL retains the time to live associated with the key
func WithKeepTTL() SetOption {
	return func(options *SetOptions) {
		options.keepTTL = true
	}
}
