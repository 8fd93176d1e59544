package redis

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerErrorCode(t *testing.T) {
	tests := []struct {
		err     ServerError
		code    string
		message string
	}{
		{"ERR unknown command 'FOO'", "ERR", "unknown command 'FOO'"},
		{"WRONGTYPE Operation against a key", "WRONGTYPE", "Operation against a key"},
		{"NOSCRIPT", "NOSCRIPT", ""},
		{"no code here", "", "no code here"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code(), "%q", tt.err)
		assert.Equal(t, tt.message, tt.err.Message(), "%q", tt.err)
		assert.Equal(t, string(tt.err), tt.err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, isFatal(protocolError("bad")))
	assert.True(t, isFatal(&TransportError{Op: "read", Err: io.ErrUnexpectedEOF}))
	assert.True(t, isFatal(fmt.Errorf("wrapped: %w", &TransportError{Op: "write", Err: io.ErrShortWrite})))
	assert.False(t, isFatal(ServerError("ERR x")))
	assert.False(t, isFatal(&MappingError{Mapper: "Int64", Kind: KindBulkString}))
	assert.False(t, isFatal(ErrNil))
}

func TestTransportErrorUnwrap(t *testing.T) {
	err := error(&TransportError{Op: "read", Err: io.ErrUnexpectedEOF})
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "redicore: read: unexpected EOF", err.Error())
}

func TestParseInfo(t *testing.T) {
	info := parseInfo("# Server\r\nredis_version:7.2.4\r\nredis_mode:standalone\r\n\r\n# Keyspace\r\ndb0:keys=1,expires=0\r\n")
	assert.Equal(t, "7.2.4", info["server"]["redis_version"])
	assert.Equal(t, "keys=1,expires=0", info["keyspace"]["db0"])
	v, ok := info.Get("redis_mode")
	assert.True(t, ok)
	assert.Equal(t, "standalone", v)
	_, ok = info.Get("missing")
	assert.False(t, ok)
}

func TestLookupMinVersion(t *testing.T) {
	for _, name := range []string{"BITFIELD", "bitfield", "BitField"} {
		v, ok := lookupMinVersion(name)
		assert.True(t, ok, name)
		assert.Equal(t, ServerVersion{3, 2, 0}, v, name)
	}
	v, ok := lookupMinVersion("touch")
	assert.True(t, ok)
	assert.Equal(t, ServerVersion{3, 2, 1}, v)
	_, ok = lookupMinVersion("GET")
	assert.False(t, ok)
}
