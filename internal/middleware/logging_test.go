package middleware

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetLoggerFromCtx(t *testing.T) {
	assert.Same(t, slog.Default(), GetLoggerFromCtx(context.Background()))

	logger := discardLogger()
	assert.Same(t, logger, GetLoggerFromCtx(WithLogger(context.Background(), logger)))
}

func TestUserIDFromCtx(t *testing.T) {
	_, ok := UserIDFromCtx(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromCtx(context.WithValue(context.Background(), userIDKey, ""))
	assert.False(t, ok)

	userID, ok := UserIDFromCtx(context.WithValue(context.Background(), userIDKey, "agent-1"))
	assert.True(t, ok)
	assert.Equal(t, "agent-1", userID)
}
