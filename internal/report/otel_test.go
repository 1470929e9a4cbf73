package report

import (
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"github.com/stretchr/testify/require"
)

func TestOTelHook_ObserveRecordsWithoutError(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	meter := mp.Meter("docenhance-test")

	hook, err := NewOTelHook(meter)
	require.NoError(t, err)

	rep := NewImprovementReport(
		"doc-otel",
		metricsWithOverall(0.5),
		metricsWithOverall(0.8),
		2, []string{"clarity"},
		50*time.Millisecond, 0.01, 0.8, 0.02, nil,
	)

	require.NotPanics(t, func() { hook.Observe(rep) })
}
