package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ErrDisabled is returned by Init when no collector endpoint is configured
var ErrDisabled = errors.New("metrics exporter disabled")

const defaultInterval = 15 * time.Second

// Config selects the OTLP collector receiving the instruments
type Config struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint"`
	Insecure    bool          `yaml:"insecure" json:"insecure"`
	Interval    time.Duration `yaml:"interval" json:"interval"`
	ServiceName string        `yaml:"service_name" json:"service_name"`
}

// Init installs a global meter provider exporting over OTLP/gRPC.
// The returned function flushes and stops the provider.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return nil, ErrDisabled
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "fleetdash"
	}
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics resource: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	return Install(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), res), nil
}

// Install makes a provider reading through reader the global one
func Install(reader sdkmetric.Reader, res *resource.Resource) func(context.Context) error {
	opts := []sdkmetric.Option{sdkmetric.WithReader(reader)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)
	return provider.Shutdown
}
