package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ghodss/yaml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Duration is a time.Duration read from configuration as a string such as
// "500ms" or "2s". A bare number is taken as nanoseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(p []byte) error {
	var s string
	if err := json.Unmarshal(p, &s); err != nil {
		var n int64
		if err := json.Unmarshal(p, &n); err != nil {
			return fmt.Errorf("redicore: invalid duration %s", p)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("redicore: invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config describes a connection. It is normally loaded from YAML:
//
//  network: tcp
//  address: localhost:6379
//  dialTimeout: 5s
//  readTimeout: 1s
//  writeTimeout: 1s
//  readBufferSize: 4096
//  logLevel: warn
//  minVersion: 3.2.0
type Config struct {
	Network        string        `json:"network"`
	Address        string        `json:"address"`
	DialTimeout    Duration      `json:"dialTimeout"`
	ReadTimeout    Duration      `json:"readTimeout"`
	WriteTimeout   Duration      `json:"writeTimeout"`
	ReadBufferSize int           `json:"readBufferSize"`
	LogLevel       zapcore.Level `json:"logLevel"`
	// MinVersion, when set, rejects servers older than this version.
	MinVersion string `json:"minVersion,omitempty"`
}

// DefaultConfig returns the configuration used for fields missing from a
// configuration file.
func DefaultConfig() Config {
	return Config{
		Network:        "tcp",
		Address:        "localhost:6379",
		DialTimeout:    Duration(5 * time.Second),
		ReadBufferSize: defaultReadBufferSize,
		LogLevel:       zapcore.WarnLevel,
	}
}

// ParseConfig parses YAML configuration over the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("redicore: parse config: %w", err)
	}
	if cfg.MinVersion != "" {
		if _, err := ParseServerVersion(cfg.MinVersion); err != nil {
			return Config{}, err
		}
	}
	if cfg.ReadBufferSize < 0 {
		return Config{}, fmt.Errorf("redicore: negative readBufferSize %d", cfg.ReadBufferSize)
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// NewLogger returns a production logger writing at level and above.
func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return config.Build()
}

// Options returns the connection options described by cfg.
func (cfg Config) Options(logger *zap.Logger) []ConnOption {
	return []ConnOption{
		WithLogger(logger),
		WithReadBufferSize(cfg.ReadBufferSize),
		WithReadTimeout(time.Duration(cfg.ReadTimeout)),
		WithWriteTimeout(time.Duration(cfg.WriteTimeout)),
		ConnUse(LoggingHandler(logger)),
	}
}

// DialConfig connects as described by cfg and reads the server version,
// which is returned for use with version gated commands. If cfg.MinVersion
// is set and the server is older, the connection is closed and an
// *UnsupportedError is returned.
func DialConfig(ctx context.Context, cfg Config) (Conn, ServerVersion, error) {
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, ServerVersion{}, err
	}
	return DialConfigLogger(ctx, cfg, logger)
}

// DialConfigLogger is like DialConfig but logs to logger instead of a
// logger built from cfg.LogLevel.
func DialConfigLogger(ctx context.Context, cfg Config, logger *zap.Logger) (Conn, ServerVersion, error) {
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.DialTimeout))
		defer cancel()
	}
	c, err := DialContext(ctx, cfg.Network, cfg.Address, cfg.Options(logger)...)
	if err != nil {
		return nil, ServerVersion{}, err
	}
	version, err := checkServerVersion(ctx, c, cfg.MinVersion)
	if err != nil {
		c.Close()
		return nil, ServerVersion{}, err
	}
	return c, version, nil
}

func checkServerVersion(ctx context.Context, c DoContexter, minVersion string) (ServerVersion, error) {
	version, err := FetchServerVersion(ctx, c)
	if err != nil {
		return ServerVersion{}, err
	}
	if minVersion == "" {
		return version, nil
	}
	min, err := ParseServerVersion(minVersion)
	if err != nil {
		return ServerVersion{}, err
	}
	if version.Compare(min) < 0 {
		return ServerVersion{}, &UnsupportedError{Command: "connection", Required: min, Server: version}
	}
	return version, nil
}
