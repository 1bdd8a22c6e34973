package logger_test

import (
	"context"
	"testing"

	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_FallsBackToDefault(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)
	require.NotNil(t, logger.Get(context.Background()))
	assert.Same(t, logger.L(), logger.Get(context.Background()))
}

func TestWithFields_AttachesToEveryEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	ctx = logger.WithFields(ctx, zap.String("request_id", "req-1"))

	logger.Info(ctx, "resolved", zap.String("zone", "bangrak"))
	logger.Debug(ctx, "dropped below level")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "bangrak", fields["zone"])
}
