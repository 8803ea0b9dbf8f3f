package logger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"calbuddy/pkg/logger"
)

func observed(level zapcore.Level) (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.NewFromZap(zap.New(core)), logs
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     logger.Environment
		level   string
		wantErr bool
	}{
		{name: "development default level", env: logger.Development},
		{name: "production info", env: logger.Production, level: "info"},
		{name: "upper case level", env: logger.Production, level: "WARN"},
		{name: "unknown level", env: logger.Development, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.NewLogger(tt.env, tt.level)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, logger.ErrUnknownLevel)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestLoggerAddsContextFields(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	ctx := logger.NewRequestIDContext(context.Background(), "req-1")
	ctx = logger.NewUserIDContext(ctx, "user-1")

	l.Info(ctx, "saved")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields[logger.RequestID])
	assert.Equal(t, "user-1", fields[logger.UserID])
}

func TestLoggerWithoutContextFields(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	l.Warn(context.Background(), "plain", zap.String("k", "v"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "v", fields["k"])
	assert.NotContains(t, fields, logger.RequestID)
	assert.NotContains(t, fields, logger.UserID)
}

func TestLoggerWith(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	child := l.With(zap.String("method", "EventUseCase.SaveEvent"))
	child.Error(context.Background(), "boom")
	l.Debug(context.Background(), "parent")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "EventUseCase.SaveEvent", entries[0].ContextMap()["method"])
	assert.NotContains(t, entries[1].ContextMap(), "method")
}

func TestFromContext(t *testing.T) {
	t.Run("logger present", func(t *testing.T) {
		l := logger.NewNop()
		got, err := logger.FromContext(logger.NewContext(context.Background(), l))
		require.NoError(t, err)
		assert.Same(t, l, got)
	})

	t.Run("logger missing", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.ErrorIs(t, err, logger.ErrLoggerNotFound)
		assert.Nil(t, got)
	})

	t.Run("wrong value type", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "not a logger")
		_, err := logger.FromContext(ctx)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLogPrefersContextLogger(t *testing.T) {
	global := logger.NewNop()
	logger.SetGlobalLogger(global)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	local := logger.NewNop()

	assert.Same(t, local, logger.Log(logger.NewContext(context.Background(), local)))
	assert.Same(t, global, logger.Log(context.Background()))
}

func TestLogFallsBackWithoutGlobal(t *testing.T) {
	logger.SetGlobalLogger(nil)
	assert.NotNil(t, logger.Log(context.Background()))
}

func TestInitGlobalLoggerWithLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Production, "error"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "debug"))
	assert.Same(t, first, logger.Log(context.Background()), "second init must keep the first logger")
}

func TestRequestID(t *testing.T) {
	t.Run("generated when empty", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("kept when provided", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "abc")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("absent", func(t *testing.T) {
		_, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
	})

	t.Run("unique", func(t *testing.T) {
		assert.NotEqual(t, logger.GenerateRequestID(), logger.GenerateRequestID())
	})
}

func TestWithRequestID(t *testing.T) {
	l, logs := observed(zapcore.InfoLevel)

	ctx := logger.NewRequestIDContext(context.Background(), "fixed")
	l.WithRequestID(ctx).Info(context.Background(), "msg")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed", entries[0].ContextMap()[logger.RequestID])
}
