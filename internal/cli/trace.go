package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	applog "subtrackr/internal/log"
)

type runIDKey struct{}

// NewRunID creates a unique id for one command invocation.
func NewRunID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	return "run_" + hex.EncodeToString(bytes)
}

// RunIDFromContext extracts the invocation id set by the command tracer.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// traced runs fn with a fresh run id attached to the context logger, then logs
// the outcome. The store and service log through that logger, so every record
// of one invocation carries the same run id.
func (a *App) traced(ctx context.Context, cmd string, fn func(context.Context) int) int {
	start := time.Now()
	runID := NewRunID()

	logger := a.Logger.With(applog.FieldRunID, runID, applog.FieldCommand, cmd)
	ctx = context.WithValue(ctx, runIDKey{}, runID)
	ctx = applog.NewContext(ctx, logger)

	logger.DebugContext(ctx, "Command started")
	code := fn(ctx)

	level := slog.LevelDebug
	if code != ExitOK {
		level = slog.LevelInfo
	}
	logger.Log(ctx, level, "Command completed",
		"exit_code", code,
		applog.FieldDurationMs, time.Since(start).Milliseconds(),
		"success", code == ExitOK)
	return code
}
