package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Decisions.WithLabelValues("Approved").Inc()
	m.CacheLookups.WithLabelValues("hit").Add(2)
	m.ModelLatency.Observe(0.002)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("Approved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["loan_predictor_decisions_total"])
	assert.True(t, names["loan_predictor_cache_lookups_total"])
	assert.True(t, names["loan_predictor_model_predict_duration_seconds"])
}

func TestNew_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() { New(nil) })
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
