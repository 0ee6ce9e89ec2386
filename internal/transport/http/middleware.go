package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"github.com/asquebay/coffee-order-service/internal/lib/tracing"
)

// RequestIDHeader заголовок, в котором передаётся id запроса
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID возвращает id запроса из контекста
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestIDMiddleware берёт id запроса из заголовка или генерирует новый
// и открывает спан на весь запрос
func (h *Handler) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		ctx, span := tracing.Start(ctx, tracerScope, spanName(r),
			attribute.String("http.request_id", id),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// spanName строится по шаблону маршрута, чтобы запросы к разным id попадали в один спан
// middleware вызывается только для найденного маршрута, r.URL.Path остаётся запасным вариантом
func spanName(r *http.Request) string {
	path := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			path = tpl
		}
	}
	return r.Method + " " + path
}

// loggingMiddleware пишет в лог каждый обработанный запрос
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		h.log.Info("request handled",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("trace_id", tracing.TraceID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

const tracerScope = "github.com/asquebay/coffee-order-service/internal/transport/http"

// statusWriter запоминает код ответа для лога
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
