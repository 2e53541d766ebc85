package reactive

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsInstrumentation(t *testing.T) {
	reg := prometheus.NewRegistry()
	EnableMetrics(WithRegistry(reg), WithNamespace("test"))
	defer DisableMetrics()

	m := metricsState.Load()
	require.NotNil(t, m)

	o := Observe(map[string]any{"a": 1}).(*Object)
	NewEffect(func() any {
		_ = o.Get("a")
		return nil
	})
	o.Set("a", 2)

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.tracks), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.effectRuns), 2.0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.triggers.WithLabelValues("set")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
