package bootstrap

import (
	"context"
	"log/slog"

	"library-backend/internal/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(
		SetupTracing,
	),
)

// SetupTracing installs an OTLP/HTTP exporter when an endpoint (host:port) is
// configured. Without one the global no-op provider stays in place.
func SetupTracing(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) error {
	if cfg.Tracing.Endpoint == "" {
		logger.Info("Tracing disabled", "reason", "OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Tracing.Endpoint)}
	if cfg.Tracing.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.Tracing.ServiceName),
		)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})

	logger.Info("Tracing enabled", "endpoint", cfg.Tracing.Endpoint)
	return nil
}
