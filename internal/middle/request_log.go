package middle

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"connekt/internal/telemetry"
	"connekt/models"
	"connekt/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type RequestIdKey struct{}

type RequestLogMiddlewareParams struct {
	fx.In

	RequestLogs   repository.RequestLogRepository
	TracerFactory *telemetry.TracerFactory
	Logger        *zap.Logger
}

// RequestLogMiddleware stores every API call, tags it with a request ID and
// opens a span for it.
type RequestLogMiddleware struct {
	requestLogs   repository.RequestLogRepository
	tracerFactory *telemetry.TracerFactory
	logger        *zap.Logger
}

func NewRequestLogMiddleware(p RequestLogMiddlewareParams) *RequestLogMiddleware {
	return &RequestLogMiddleware{
		requestLogs:   p.RequestLogs,
		tracerFactory: p.TracerFactory,
		logger:        p.Logger,
	}
}

func (m *RequestLogMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// health probes are not audited
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		var bodyBytes []byte
		if r.Body != nil {
			data, err := io.ReadAll(r.Body)
			if err != nil {
				m.logger.Error("failed to read request body", zap.Error(err))
			} else {
				bodyBytes = data
			}
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		requestId := uuid.New().String()
		entry := &models.RequestLog{
			ID:          requestId,
			MessageTime: time.Now().UnixNano(),
			HTTPMethod:  r.Method,
			RawEndpoint: r.URL.Path,
			HTTPBody:    string(bodyBytes),
			CallerID:    CallerID(r.Context()),
		}
		if err := m.requestLogs.Create(r.Context(), entry); err != nil {
			m.logger.Error("failed to log API call", zap.String("request_id", requestId), zap.Error(err))
		}

		tracer := m.tracerFactory.NewTracer(r.Context(), r.Method+" "+r.URL.Path)
		attrs := telemetry.EmptySpanAttributes().WithRequestID(requestId)
		if entry.CallerID != "" {
			attrs.WithUserID(entry.CallerID)
		}
		tracer.WithAttributes(attrs)
		tracer.Start()
		defer tracer.End()

		ctx := r.Context()
		ctx = context.WithValue(ctx, RequestIdKey{}, requestId)
		ctx = telemetry.WithTracer(ctx, tracer)

		w.Header().Set(RequestIDHeader, requestId)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		tracer.WithAttributes(telemetry.EmptySpanAttributes().WithStatus(rec.status))
		if rec.status >= http.StatusInternalServerError {
			tracer.SetStatus(codes.Error, http.StatusText(rec.status))
		} else {
			tracer.SetStatus(codes.Ok, "")
		}
	})
}

// RequestID returns the ID assigned to the current request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIdKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
