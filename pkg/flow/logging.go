package flow

import (
	"context"
	"log/slog"
)

type loggerKey struct{}
type runIDKey struct{}

// WithLogger attaches a *slog.Logger to ctx for downstream compiler and
// runtime stages to use.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger attached to ctx, or slog.Default() if none.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// WithRunID attaches a run identifier to ctx so every log line in that run
// can be correlated. The caller chooses the id; the Coordinator sets none.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run identifier attached to ctx, or "" if none.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func appendRunID(ctx context.Context, args []any) []any {
	if id := RunID(ctx); id != "" {
		args = append(args, "run_id", id)
	}
	return args
}

// LogInfo logs at info level with the run id (if any) appended.
func LogInfo(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelInfo) {
		return
	}
	logger.InfoContext(ctx, msg, appendRunID(ctx, args)...)
}

// LogWarn logs at warn level with the run id (if any) appended.
func LogWarn(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	logger.WarnContext(ctx, msg, appendRunID(ctx, args)...)
}

// LogError logs at error level, appending the run id and, if err implements
// *Error, its structured tags.
func LogError(ctx context.Context, msg string, err error, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelError) {
		return
	}
	args = appendRunID(ctx, args)
	if err != nil {
		args = append(args, "error", err)
		if fe, ok := err.(*Error); ok {
			for _, a := range fe.Attrs() {
				args = append(args, a.Key, a.Value.Any())
			}
		}
	}
	logger.ErrorContext(ctx, msg, args...)
}

// LogDebug logs at debug level with the run id (if any) appended.
func LogDebug(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.DebugContext(ctx, msg, appendRunID(ctx, args)...)
}
