package oidrecord

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with conversion-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithShard adds a shard index field to the logger.
func (l *Logger) WithShard(index int) *Logger {
	return &Logger{
		Logger: l.Logger.With("shard", index),
	}
}

// WithImage adds an image id field to the logger.
func (l *Logger) WithImage(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("image_id", id),
	}
}

// LogShardsOpened logs the result of opening a shard set.
func (l *Logger) LogShardsOpened(ctx context.Context, base string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open shards failed",
			"base", base,
			"shards", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "shards opened",
			"base", base,
			"shards", count,
		)
	}
}

// LogExample logs the conversion of one image.
func (l *Logger) LogExample(ctx context.Context, id string, shard, boxes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build example failed",
			"image_id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "example built",
			"image_id", id,
			"shard", shard,
			"boxes", boxes,
		)
	}
}

// LogSkippedImage logs an image dropped because its bytes are missing.
func (l *Logger) LogSkippedImage(ctx context.Context, id string, err error) {
	l.WarnContext(ctx, "image skipped",
		"image_id", id,
		"error", err,
	)
}

// LogConvert logs the outcome of a conversion run.
func (l *Logger) LogConvert(ctx context.Context, r *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "convert failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "convert completed",
		"base", r.Base,
		"shards", r.NumShards,
		"images", r.Images,
		"skipped", len(r.SkippedImages),
		"boxes_kept", r.BoxesKept,
		"boxes_dropped", r.BoxesDropped,
		"duration", r.Duration,
	)
}
