// Package tracing настраивает OpenTelemetry для сервиса
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/asquebay/coffee-order-service/internal/config"
)

// ShutdownFunc сбрасывает накопленные спаны и останавливает провайдер
type ShutdownFunc func(ctx context.Context) error

// Init регистрирует глобальный TracerProvider
// при выключенной трассировке провайдер создаётся без экспортера, и спаны никуда не пишутся
func Init(cfg config.Tracing, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	const op = "lib.tracing.Init"

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	}

	if cfg.Enabled {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to create exporter: %w", op, err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp, tp.Shutdown, nil
}

// Start открывает спан с именем name трассировщиком пакета scope
func Start(ctx context.Context, scope, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(scope).Start(ctx, name, trace.WithAttributes(attrs...))
}

// TraceID возвращает id трассировки из контекста или пустую строку
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
