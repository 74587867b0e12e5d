package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/bbprovision"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Backend client metrics
	BackendRequestsTotal   metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram

	// Provisioning metrics
	OrgsResolvedTotal    metric.Int64Counter
	OrgsCreatedTotal     metric.Int64Counter
	ConfigsUpsertedTotal metric.Int64Counter
	BackfillsTotal       metric.Int64Counter

	// Reconciliation metrics
	UnmappedDevices metric.Int64Histogram
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.BackendRequestsTotal, _ = meter.Int64Counter(
		"bbprovision.backend.requests.total",
		metric.WithDescription("Total number of backend requests by method and outcome"),
		metric.WithUnit("{request}"),
	)

	m.BackendRequestDuration, _ = meter.Float64Histogram(
		"bbprovision.backend.request.duration",
		metric.WithDescription("Duration of backend requests"),
		metric.WithUnit("ms"),
	)

	m.OrgsResolvedTotal, _ = meter.Int64Counter(
		"bbprovision.orgs.resolved.total",
		metric.WithDescription("Total number of organizations resolved by name"),
		metric.WithUnit("{org}"),
	)

	m.OrgsCreatedTotal, _ = meter.Int64Counter(
		"bbprovision.orgs.created.total",
		metric.WithDescription("Total number of organizations created because none matched the name"),
		metric.WithUnit("{org}"),
	)

	m.ConfigsUpsertedTotal, _ = meter.Int64Counter(
		"bbprovision.configs.upserted.total",
		metric.WithDescription("Total number of provider configurations written"),
		metric.WithUnit("{config}"),
	)

	m.BackfillsTotal, _ = meter.Int64Counter(
		"bbprovision.backfills.triggered.total",
		metric.WithDescription("Total number of backfill jobs accepted"),
		metric.WithUnit("{job}"),
	)

	m.UnmappedDevices, _ = meter.Int64Histogram(
		"bbprovision.devices.unmapped",
		metric.WithDescription("Number of unmapped devices found per organization"),
		metric.WithUnit("{device}"),
	)

	return m
}
