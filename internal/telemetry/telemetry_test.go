package telemetry

import (
	"context"
	"testing"

	"connekt/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"
)

func TestNewTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(TelemetryParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.AppConfig{ServiceName: "connekt"},
	})
	require.NoError(t, err)
	assert.Nil(t, tel)
}

func TestFactoryWithoutTelemetryReturnsDummy(t *testing.T) {
	factory := NewTracerFactory(TracerFactoryParams{})
	tracer := factory.NewTracer(context.Background(), "GET /api/projects")

	_, ok := tracer.(*DummyTracer)
	assert.True(t, ok)
	assert.Equal(t, "", tracer.Export())
	assert.Same(t, tracer, tracer.WithAttributes(NewSpanAttributes(Projects)))

	var nilFactory *TracerFactory
	_, ok = nilFactory.NewTracer(context.Background(), "x").(*DummyTracer)
	assert.True(t, ok)
}

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background()).(*DummyTracer)
	assert.True(t, ok)

	tracer := newSpanTracer(context.Background(), noop.NewTracerProvider().Tracer("test"), "request")
	ctx := WithTracer(context.Background(), tracer)
	assert.Same(t, tracer, FromContext(ctx))
}

func TestSpanTracerIgnoresCallsOutsideSpan(t *testing.T) {
	tracer := newSpanTracer(context.Background(), noop.NewTracerProvider().Tracer("test"), "request")

	tracer.AddEvent("early", nil)
	tracer.End()

	tracer.WithAttributes(NewSpanAttributes(Mail).WithUserID("u1"))
	tracer.Start()
	tracer.Start()
	tracer.AddEvent("sent", NewEventAttributes(map[string]string{"mail_id": "m1"}))
	tracer.WithAttributes(EmptySpanAttributes().WithStatus(200))
	tracer.End()

	assert.Contains(t, tracer.attrs.KeyValues(), attribute.Int("http.status_code", 200))
}

func TestSpanAttributesMerge(t *testing.T) {
	base := NewSpanAttributes(Tasks).WithTaskID("t1")
	other := NewSpanAttributes(Workflow).WithTaskID("t2").WithUserID("u1").With("approved", true)

	base.Merge(other)
	base.Merge(nil)

	kvs := base.KeyValues()
	assert.Contains(t, kvs, attribute.String("connekt.action.category", "workflow"))
	assert.Contains(t, kvs, attribute.String("connekt.task.id", "t1"))
	assert.Contains(t, kvs, attribute.String("connekt.user.id", "u1"))
	assert.Contains(t, kvs, attribute.Bool("approved", true))
	assert.NotContains(t, kvs, attribute.String("connekt.task.id", "t2"))
}

func TestSpanAttributesWithFallsBackToText(t *testing.T) {
	kvs := EmptySpanAttributes().With("budget", uint8(7)).With("rate", 1.5).KeyValues()
	require.Len(t, kvs, 2)
	assert.Equal(t, attribute.String("budget", "7"), kvs[0])
	assert.Equal(t, attribute.Float64("rate", 1.5), kvs[1])
}

func TestNewEventAttributesSorted(t *testing.T) {
	attrs := NewEventAttributes(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, EventAttributes{attribute.String("a", "1"), attribute.String("b", "2")}, attrs)
}
