package observability

import (
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Connection metrics:
// 1. Bytes read and written
// 2. Read and write invocations and their errors
// 3. Protocol errors, which fault the connection
// 4. Server error replies, by command
// 5. Round trip latency, by command

const dimensionless = "1"
const seconds = "s"

var (
	MBytesRead               = stats.Int64("redis/bytes_read", "The number of bytes read from the server", stats.UnitBytes)
	MBytesWritten            = stats.Int64("redis/bytes_written", "The number of bytes written out to the server", stats.UnitBytes)
	MRoundtripLatencySeconds = stats.Float64("redis/roundtrip_latency", "The time in seconds between sending the first byte to the server until the last byte of response is received back", seconds)
	MWriteErrors             = stats.Int64("redis/write_errors", "The number of errors encountered during write routines", dimensionless)
	MReadErrors              = stats.Int64("redis/read_errors", "The number of errors encountered during read routines", dimensionless)
	MWrites                  = stats.Int64("redis/writes", "The number of write invocations", dimensionless)
	MReads                   = stats.Int64("redis/reads", "The number of read invocations", dimensionless)
	MProtocolErrors          = stats.Int64("redis/protocol_errors", "The number of malformed replies received from the server", dimensionless)
	MServerErrors            = stats.Int64("redis/server_errors", "The number of error replies received from the server", dimensionless)
)

var KeyCommandName, _ = tag.NewKey("cmd")

var defaultSecondsDistribution = view.Distribution(
	// [0ms, 0.001ms, 0.005ms, 0.01ms, 0.05ms, 0.1ms, 0.5ms, 1ms, 1.5ms, 2ms, 2.5ms, 5ms, 10ms, 25ms, 50ms, 100ms, 200ms, 400ms, 600ms, 800ms, 1s, 1.5s, 2.5s, 5s, 10s, 20s, 40s, 100s, 200s, 500s]
	0, 0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.0015, 0.002, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.4, 0.6, 0.8, 1, 1.5, 2.5, 5, 10, 20, 40, 100, 200, 500,
)

var defaultBytesDistribution = view.Distribution(
	// [0, 1KB, 2KB, 4KB, 16KB, 64KB, 256KB,   1MB,     4MB,     16MB,     64MB,     256MB,     1GB,        4GB]
	0, 1024, 2048, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216, 67108864, 268435456, 1073741824, 4294967296,
)

var Views = []*view.View{
	{
		Name:        "redis/client/bytes_written_cumulative",
		Description: "The number of bytes written out to the server",
		Aggregation: view.Sum(),
		Measure:     MBytesWritten,
	},
	{
		Name:        "redis/client/bytes_written_distribution",
		Description: "The number of distribution of bytes written out to the server",
		Aggregation: defaultBytesDistribution,
		Measure:     MBytesWritten,
	},
	{
		Name:        "redis/client/bytes_read_cumulative",
		Description: "The number of bytes read from a response from the server",
		Aggregation: view.Sum(),
		Measure:     MBytesRead,
	},
	{
		Name:        "redis/client/bytes_read_distribution",
		Description: "The number of distribution of bytes read from the server",
		Aggregation: defaultBytesDistribution,
		Measure:     MBytesRead,
	},
	{
		Name:        "redis/client/roundtrip_latency",
		Description: "The distribution of seconds of the roundtrip latencies for method invocation",
		Aggregation: defaultSecondsDistribution,
		Measure:     MRoundtripLatencySeconds,
		TagKeys:     []tag.Key{KeyCommandName},
	},
	{
		Name:        "redis/client/write_errors",
		Description: "The number of errors encountered during a write routine",
		Aggregation: view.Count(),
		Measure:     MWriteErrors,
		TagKeys:     []tag.Key{KeyCommandName},
	},
	{
		Name:        "redis/client/writes",
		Description: "The number of write invocations",
		Aggregation: view.Count(),
		Measure:     MWrites,
		TagKeys:     []tag.Key{KeyCommandName},
	},
	{
		Name:        "redis/client/reads",
		Description: "The number of read invocations",
		Aggregation: view.Count(),
		Measure:     MReads,
		TagKeys:     []tag.Key{KeyCommandName},
	},
	{
		Name:        "redis/client/read_errors",
		Description: "The number of errors encountered during a read routine",
		Aggregation: view.Count(),
		Measure:     MReadErrors,
		TagKeys:     []tag.Key{KeyCommandName},
	},
	{
		Name:        "redis/client/protocol_errors",
		Description: "The number of malformed replies, each of which faults its connection",
		Aggregation: view.Count(),
		Measure:     MProtocolErrors,
	},
	{
		Name:        "redis/client/server_errors",
		Description: "The number of error replies by command",
		Aggregation: view.Count(),
		Measure:     MServerErrors,
		TagKeys:     []tag.Key{KeyCommandName},
	},
}
