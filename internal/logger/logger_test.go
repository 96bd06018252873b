package logger

import (
	"errors"
	"testing"
	"time"

	"connekt/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("whatever"))
}

func TestBuildConfigPicksEncoding(t *testing.T) {
	assert.True(t, buildConfig("debug").Development)
	assert.False(t, buildConfig("error").Development)
	assert.Equal(t, "json", buildConfig("warn").Encoding)
}

func TestNewLoggerWithoutTelemetry(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	lg := NewLogger(LoggerParams{
		Lifecycle: lc,
		Config:    &config.AppConfig{LogLevel: "warn", ServiceName: "connekt"},
	})
	require.NotNil(t, lg)
	assert.False(t, lg.Core().Enabled(zap.InfoLevel))
	assert.True(t, lg.Core().Enabled(zap.WarnLevel))
	lc.RequireStart().RequireStop()
}

func TestEncodeFields(t *testing.T) {
	kvs := encodeFields([]zapcore.Field{
		zap.String("k", "v"),
		zap.Int("n", 3),
		zap.Bool("ok", true),
		zap.Float64("amount", 12.5),
		zap.Error(errors.New("boom")),
		zap.Duration("took", 2*time.Second),
	})
	require.Len(t, kvs, 6)

	byKey := make(map[string]log.Value, len(kvs))
	for _, kv := range kvs {
		byKey[kv.Key] = kv.Value
	}
	assert.Equal(t, 12.5, byKey["amount"].AsFloat64())
	assert.Equal(t, "boom", byKey["error"].AsString())
	assert.Equal(t, "v", byKey["k"].AsString())
	assert.Equal(t, int64(3), byKey["n"].AsInt64())
	assert.True(t, byKey["ok"].AsBool())
	assert.Equal(t, "2s", byKey["took"].AsString())
	assert.Equal(t, "amount", kvs[0].Key)
}

func TestOTelCoreWithKeepsParentFields(t *testing.T) {
	sink := lognoop.NewLoggerProvider().Logger("test")
	core := newOTelCore(sink, zapcore.InfoLevel, "connekt")

	child := core.With([]zapcore.Field{zap.String("request_id", "r1")}).(*otelCore)
	assert.Len(t, core.fields, 1)
	assert.Len(t, child.fields, 2)

	ent := zapcore.Entry{Level: zapcore.WarnLevel, Message: "hello", Time: time.Now()}
	assert.NotNil(t, child.Check(ent, nil))
	assert.Nil(t, child.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil))
	assert.NoError(t, child.Write(ent, []zapcore.Field{zap.Int("n", 1)}))
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, log.SeverityDebug, severity(zapcore.DebugLevel))
	assert.Equal(t, log.SeverityWarn, severity(zapcore.WarnLevel))
	assert.Equal(t, log.SeverityFatal, severity(zapcore.PanicLevel))
}
