package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RunStarted()
	c.RunStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.InflightRuns))

	c.ObserveRun("monte_carlo", OutcomeSuccess, 2*time.Millisecond)
	c.ObserveRun("monte_carlo", OutcomeBankrupt, 3*time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.InflightRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RunsTotal.WithLabelValues("monte_carlo", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RunsTotal.WithLabelValues("monte_carlo", OutcomeBankrupt)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Bankruptcies.WithLabelValues("monte_carlo")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.RunDuration))
}

func TestCollectorRecordsBatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveBatch("historical", 97, time.Second)
	c.ObserveBatch("fixed", 1, time.Millisecond)
	assert.Equal(t, 2, testutil.CollectAndCount(c.BatchRuns))
	assert.Equal(t, 2, testutil.CollectAndCount(c.BatchDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fire_batch_runs")
	assert.Contains(t, names, "fire_batch_duration_seconds")
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RunStarted()
		c.ObserveRun("fixed", OutcomeFailure, time.Millisecond)
		c.ObserveBatch("fixed", 1, time.Millisecond)
	})
}

func TestRegisteringTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
