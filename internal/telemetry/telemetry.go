package telemetry

import (
	"context"
	"errors"
	"fmt"

	"connekt/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Telemetry exposes the OTLP-backed tracer and log sink. Logger may be nil
// when the log exporter could not be created.
type Telemetry interface {
	Tracer() trace.Tracer
	Logger() log.Logger
}

type otlpTelemetry struct {
	traces *sdktrace.TracerProvider
	logs   *sdklog.LoggerProvider
	name   string
}

type TelemetryParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.AppConfig
}

// NewTelemetry wires OTLP/gRPC export for spans and logs. Endpoints come from
// the standard OTEL_EXPORTER_OTLP_* variables. It returns nil when
// OTEL_ENABLED is off.
func NewTelemetry(p TelemetryParams) (Telemetry, error) {
	if !p.Config.Telemetry.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(p.Config.ServiceName))

	traces, err := newTraceProvider(ctx, res)
	if err != nil {
		cancel()
		return nil, err
	}

	t := &otlpTelemetry{
		traces: traces,
		logs:   newLogProvider(ctx, res),
		name:   p.Config.ServiceName,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			defer cancel()
			return t.shutdown(ctx)
		},
	})
	return t, nil
}

func newTraceProvider(ctx context.Context, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return provider, nil
}

// newLogProvider returns nil when the exporter fails; logs then stay local.
func newLogProvider(ctx context.Context, res *resource.Resource) *sdklog.LoggerProvider {
	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		zap.L().Warn("OTLP log export disabled", zap.Error(err))
		return nil
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)
}

func (t *otlpTelemetry) Tracer() trace.Tracer {
	return t.traces.Tracer(t.name)
}

func (t *otlpTelemetry) Logger() log.Logger {
	if t.logs == nil {
		return nil
	}
	return t.logs.Logger(t.name)
}

func (t *otlpTelemetry) shutdown(ctx context.Context) error {
	var errs []error
	if err := t.traces.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("trace provider: %w", err))
	}
	if t.logs != nil {
		if err := t.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("log provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
