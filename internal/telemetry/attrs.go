package telemetry

import (
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

// Category groups request spans by the part of the product they touch.
type Category string

const (
	Identity    Category = "identity"
	Projects    Category = "projects"
	Tasks       Category = "tasks"
	Workflow    Category = "workflow"
	Mail        Category = "mail"
	Admin       Category = "admin"
	Marketplace Category = "marketplace"
	Presence    Category = "presence"
)

const (
	categoryKey  attribute.Key = "connekt.action.category"
	spanNameKey  attribute.Key = "connekt.action.name"
	userIDKey    attribute.Key = "connekt.user.id"
	projectIDKey attribute.Key = "connekt.project.id"
	taskIDKey    attribute.Key = "connekt.task.id"
	requestIDKey attribute.Key = "connekt.request.id"
	statusKey    attribute.Key = "http.status_code"
)

// SpanAttributes is a keyed set of span attributes. Merging never replaces a
// key that is already set, except for the category.
type SpanAttributes struct {
	values map[attribute.Key]attribute.Value
}

func EmptySpanAttributes() *SpanAttributes {
	return &SpanAttributes{values: make(map[attribute.Key]attribute.Value)}
}

func NewSpanAttributes(category Category) *SpanAttributes {
	return EmptySpanAttributes().set(categoryKey, attribute.StringValue(string(category)))
}

func (s *SpanAttributes) set(key attribute.Key, val attribute.Value) *SpanAttributes {
	if s.values == nil {
		s.values = make(map[attribute.Key]attribute.Value)
	}
	s.values[key] = val
	return s
}

func (s *SpanAttributes) WithUserID(uid string) *SpanAttributes {
	return s.set(userIDKey, attribute.StringValue(uid))
}

func (s *SpanAttributes) WithProjectID(id string) *SpanAttributes {
	return s.set(projectIDKey, attribute.StringValue(id))
}

func (s *SpanAttributes) WithTaskID(id string) *SpanAttributes {
	return s.set(taskIDKey, attribute.StringValue(id))
}

func (s *SpanAttributes) WithRequestID(id string) *SpanAttributes {
	return s.set(requestIDKey, attribute.StringValue(id))
}

func (s *SpanAttributes) WithStatus(code int) *SpanAttributes {
	return s.set(statusKey, attribute.IntValue(code))
}

// With adds a free-form attribute. Unsupported types are stored as their %v text.
func (s *SpanAttributes) With(key string, v any) *SpanAttributes {
	var val attribute.Value
	switch typed := v.(type) {
	case string:
		val = attribute.StringValue(typed)
	case bool:
		val = attribute.BoolValue(typed)
	case int:
		val = attribute.IntValue(typed)
	case int64:
		val = attribute.Int64Value(typed)
	case float64:
		val = attribute.Float64Value(typed)
	default:
		val = attribute.StringValue(fmt.Sprintf("%v", typed))
	}
	return s.set(attribute.Key(key), val)
}

func (s *SpanAttributes) Merge(other *SpanAttributes) {
	if other == nil {
		return
	}
	for key, val := range other.values {
		if _, exists := s.values[key]; exists && key != categoryKey {
			continue
		}
		s.set(key, val)
	}
}

// KeyValues returns the attributes ordered by key.
func (s *SpanAttributes) KeyValues() []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(s.values))
	for key, val := range s.values {
		kvs = append(kvs, attribute.KeyValue{Key: key, Value: val})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return kvs
}

type EventAttributes []attribute.KeyValue

// NewEventAttributes converts string pairs into event attributes ordered by key.
func NewEventAttributes(pairs map[string]string) EventAttributes {
	attrs := make(EventAttributes, 0, len(pairs))
	for k, v := range pairs {
		attrs = append(attrs, attribute.String(k, v))
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	return attrs
}
