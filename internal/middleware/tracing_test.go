package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"interviewcheck/internal/infrastructure"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) attribute.Value {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracing := NewTracing(tp)
	tracing.propagator = propagation.TraceContext{}

	var logTraceID, reqID string
	r := chi.NewRouter()
	r.Use(tracing.Handler)
	r.Use(RequestID)
	r.Get("/api/interviewers/{interviewer}/progress", func(w http.ResponseWriter, r *http.Request) {
		logTraceID = infrastructure.GetTraceID(r.Context())
		reqID = GetRequestID(r.Context())
		w.Write([]byte(`{}`))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/missing-row", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	tests := []struct {
		name       string
		path       string
		wantName   string
		wantStatus int
		wantCode   codes.Code
	}{
		{"named after the route", "/api/interviewers/alice/progress", "GET /api/interviewers/{interviewer}/progress", http.StatusOK, codes.Unset},
		{"server error fails the span", "/boom", "GET /boom", http.StatusInternalServerError, codes.Error},
		{"client error leaves the span ok", "/missing-row", "GET /missing-row", http.StatusNotFound, codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(recorder.Ended())
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rec.Code)

			spans := recorder.Ended()
			require.Len(t, spans, before+1)
			span := spans[len(spans)-1]
			assert.Equal(t, tt.wantName, span.Name())
			assert.Equal(t, trace.SpanKindServer, span.SpanKind())
			assert.Equal(t, int64(tt.wantStatus), spanAttr(span, "http.response.status_code").AsInt64())
			assert.Equal(t, tt.wantCode, span.Status().Code)
		})
	}

	t.Run("logs carry the span trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/interviewers/alice/progress", nil)
		req.Header.Set(RequestIDHeader, "client-id")
		r.ServeHTTP(httptest.NewRecorder(), req)

		spans := recorder.Ended()
		span := spans[len(spans)-1]
		assert.Equal(t, span.SpanContext().TraceID().String(), logTraceID)
		assert.Equal(t, "client-id", reqID, "the request id stays the client's")
		assert.Equal(t, "/api/interviewers/{interviewer}/progress", spanAttr(span, "http.route").AsString())
	})

	t.Run("continues the caller's trace", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/interviewers/alice/progress", nil)
		req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
		r.ServeHTTP(httptest.NewRecorder(), req)

		spans := recorder.Ended()
		span := spans[len(spans)-1]
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", span.SpanContext().TraceID().String())
		assert.Equal(t, "00f067aa0ba902b7", span.Parent().SpanID().String())
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", logTraceID)
	})
}
