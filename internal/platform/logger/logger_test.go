package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/hifz-api/internal/config"
)

func TestSetupValidLevels(t *testing.T) {
	testCases := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn}, // case-insensitive
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			logger := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.level})
			require.NotNil(t, logger)
			assert.True(t, logger.Enabled(context.Background(), tc.enabled))
		})
	}
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	logger := Setup(config.ServerConfig{Port: 8080, LogLevel: "verbose"})
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestWithLoggerAndFromContext(t *testing.T) {
	t.Parallel()

	scoped := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "test")

	ctx := context.Background()
	assert.Equal(t, slog.Default(), FromContext(ctx))

	ctx = WithLogger(ctx, scoped)
	assert.Equal(t, scoped, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Empty context returns the fallback.
	got := FromContextOrDefault(context.Background(), fallback)
	assert.Equal(t, fallback, got)

	// Context logger wins over the fallback.
	scoped := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "scoped")
	ctx := WithLogger(context.Background(), scoped)
	assert.Equal(t, scoped, FromContextOrDefault(ctx, fallback))

	// Nil fallback falls through to the default logger.
	assert.Equal(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
}
