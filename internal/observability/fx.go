package observability

import (
	"github.com/openjass/aquanet/internal/config"
	"github.com/openjass/aquanet/internal/observability/metrics"
	"github.com/openjass/aquanet/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideTracingConfig,
		tracing.NewProvider,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func provideTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.TracingEnabled,
		ServiceName:      cfg.AppName,
		ExporterEndpoint: cfg.OTLPEndpoint,
	}
}
