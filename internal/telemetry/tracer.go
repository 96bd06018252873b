package telemetry

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Tracer is the per-request span handle carried in the request context.
type Tracer interface {
	Start()
	WithAttributes(attrs *SpanAttributes) Tracer
	AddEvent(name string, attrs EventAttributes)
	SetStatus(code codes.Code, message string)
	// Export returns the W3C trace context as a JSON object, or "" when no
	// span is recording.
	Export() string
	End()
}

type tracerKey struct{}

func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// FromContext returns the request tracer, or a DummyTracer outside a request.
func FromContext(ctx context.Context) Tracer {
	if tracer, ok := ctx.Value(tracerKey{}).(Tracer); ok && tracer != nil {
		return tracer
	}
	return &DummyTracer{}
}

type TracerFactory struct {
	telemetry Telemetry
}

type TracerFactoryParams struct {
	fx.In

	Telemetry Telemetry `optional:"true"`
}

func NewTracerFactory(p TracerFactoryParams) *TracerFactory {
	return &TracerFactory{telemetry: p.Telemetry}
}

// NewTracer prepares an unstarted span named name under ctx.
func (f *TracerFactory) NewTracer(ctx context.Context, name string) Tracer {
	if f == nil || f.telemetry == nil {
		return &DummyTracer{}
	}
	return newSpanTracer(ctx, f.telemetry.Tracer(), name)
}

// spanTracer buffers attributes until Start and ignores calls outside the
// span's lifetime.
type spanTracer struct {
	tracer trace.Tracer
	ctx    context.Context
	name   string
	attrs  *SpanAttributes
	span   trace.Span
}

func newSpanTracer(ctx context.Context, tracer trace.Tracer, name string) *spanTracer {
	return &spanTracer{
		tracer: tracer,
		ctx:    ctx,
		name:   name,
		attrs:  EmptySpanAttributes(),
	}
}

func (t *spanTracer) Start() {
	if t.span != nil {
		return
	}
	kvs := append(t.attrs.KeyValues(), spanNameKey.String(t.name))
	t.ctx, t.span = t.tracer.Start(t.ctx, t.name, trace.WithAttributes(kvs...))
}

func (t *spanTracer) WithAttributes(attrs *SpanAttributes) Tracer {
	t.attrs.Merge(attrs)
	if t.span != nil {
		t.span.SetAttributes(t.attrs.KeyValues()...)
	}
	return t
}

func (t *spanTracer) AddEvent(name string, attrs EventAttributes) {
	if t.span != nil {
		t.span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

func (t *spanTracer) SetStatus(code codes.Code, message string) {
	if t.span != nil {
		t.span.SetStatus(code, message)
	}
}

func (t *spanTracer) Export() string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(t.ctx, carrier)
	if len(carrier) == 0 {
		return ""
	}
	payload, _ := json.Marshal(carrier)
	return string(payload)
}

func (t *spanTracer) End() {
	if t.span != nil {
		t.span.End()
	}
}

// DummyTracer is used when telemetry is disabled.
type DummyTracer struct{}

func (t *DummyTracer) Start()                                {}
func (t *DummyTracer) WithAttributes(*SpanAttributes) Tracer { return t }
func (t *DummyTracer) AddEvent(string, EventAttributes)      {}
func (t *DummyTracer) SetStatus(codes.Code, string)          {}
func (t *DummyTracer) Export() string                        { return "" }
func (t *DummyTracer) End()                                  {}
