package observability

import (
	"context"
	"strings"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

func TagKeyValuesIntoContext(ctx context.Context, key tag.Key, values ...string) (context.Context, error) {
	insertions := make([]tag.Mutator, len(values))
	for i, value := range values {
		insertions[i] = tag.Insert(key, value)
	}
	return tag.New(ctx, insertions...)
}

// CommandContext tags ctx with the upper cased command name. Tagging
// errors leave ctx untagged.
func CommandContext(ctx context.Context, commandName string) context.Context {
	tagged, err := TagKeyValuesIntoContext(ctx, KeyCommandName, strings.ToUpper(commandName))
	if err != nil {
		return ctx
	}
	return tagged
}

// SinceInSeconds returns the elapsed time since start in seconds.
func SinceInSeconds(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Second)
}

// RecordWrite records one write of n bytes, counting it as an error when
// err is not nil.
func RecordWrite(ctx context.Context, n int, err error) {
	ms := []stats.Measurement{MWrites.M(1), MBytesWritten.M(int64(n))}
	if err != nil {
		ms = append(ms, MWriteErrors.M(1))
	}
	stats.Record(ctx, ms...)
}

// RecordRead is the read counterpart of RecordWrite.
func RecordRead(ctx context.Context, n int, err error) {
	ms := []stats.Measurement{MReads.M(1), MBytesRead.M(int64(n))}
	if err != nil {
		ms = append(ms, MReadErrors.M(1))
	}
	stats.Record(ctx, ms...)
}
