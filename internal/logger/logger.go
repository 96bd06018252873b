package logger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"connekt/config"
	"connekt/internal/telemetry"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.AppConfig
	Telemetry telemetry.Telemetry `optional:"true"`
}

// NewLogger builds the process logger. When telemetry provides a log sink,
// every entry is also emitted as an OpenTelemetry log record.
func NewLogger(p LoggerParams) *zap.Logger {
	cfg := buildConfig(p.Config.LogLevel)

	var opts []zap.Option
	if p.Telemetry != nil {
		if sink := p.Telemetry.Logger(); sink != nil {
			opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapcore.NewTee(core, newOTelCore(sink, cfg.Level, p.Config.ServiceName))
			}))
		}
	}

	lg, err := cfg.Build(opts...)
	if err != nil {
		return zap.NewExample()
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = lg.Sync() // stderr sync fails on some terminals
			return nil
		},
	})
	return lg
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// buildConfig picks the development encoder up to info level and the JSON
// production encoder above it.
func buildConfig(level string) zap.Config {
	lvl := parseLevel(level)

	var cfg zap.Config
	if lvl > zapcore.InfoLevel {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg
}

// otelCore is a zapcore.Core that only forwards entries to an OpenTelemetry
// log sink. It is teed next to the console core.
type otelCore struct {
	zapcore.LevelEnabler
	sink   log.Logger
	fields []log.KeyValue
}

func newOTelCore(sink log.Logger, level zapcore.LevelEnabler, service string) *otelCore {
	return &otelCore{
		LevelEnabler: level,
		sink:         sink,
		fields:       []log.KeyValue{log.String("service.name", service)},
	}
}

func (c *otelCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(slices.Clone(c.fields), encodeFields(fields)...)
	return &clone
}

func (c *otelCore) Check(ent zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return checked.AddCore(ent, c)
	}
	return checked
}

func (c *otelCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	var rec log.Record
	rec.SetTimestamp(ent.Time)
	rec.SetBody(log.StringValue(ent.Message))
	rec.SetSeverity(severity(ent.Level))
	rec.SetSeverityText(ent.Level.CapitalString())
	rec.AddAttributes(c.fields...)
	rec.AddAttributes(encodeFields(fields)...)
	if ent.LoggerName != "" {
		rec.AddAttributes(log.String("logger", ent.LoggerName))
	}

	c.sink.Emit(context.Background(), rec)
	return nil
}

func (c *otelCore) Sync() error { return nil }

func severity(level zapcore.Level) log.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return log.SeverityDebug
	case level == zapcore.InfoLevel:
		return log.SeverityInfo
	case level == zapcore.WarnLevel:
		return log.SeverityWarn
	case level == zapcore.ErrorLevel:
		return log.SeverityError
	}
	return log.SeverityFatal
}

// encodeFields runs the fields through zap's map encoder so each field type
// is converted the way zap itself renders it. The result is ordered by key.
func encodeFields(fields []zapcore.Field) []log.KeyValue {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	kvs := make([]log.KeyValue, 0, len(enc.Fields))
	for key, val := range enc.Fields {
		kvs = append(kvs, log.KeyValue{Key: key, Value: logValue(val)})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return kvs
}

func logValue(v any) log.Value {
	switch val := v.(type) {
	case string:
		return log.StringValue(val)
	case bool:
		return log.BoolValue(val)
	case int:
		return log.IntValue(val)
	case int32:
		return log.Int64Value(int64(val))
	case int64:
		return log.Int64Value(val)
	case uint32:
		return log.Int64Value(int64(val))
	case float64:
		return log.Float64Value(val)
	case time.Duration:
		return log.StringValue(val.String())
	case time.Time:
		return log.StringValue(val.Format(time.RFC3339Nano))
	}
	return log.StringValue(fmt.Sprint(v))
}
