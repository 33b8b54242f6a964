package infrastructure

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.EvaluationsSaved.WithLabelValues("alice").Inc()
	m.EvaluationsSaved.WithLabelValues("alice").Inc()
	m.EvaluationsDeleted.WithLabelValues("bob").Inc()
	m.MergeFilesRead.Add(3)
	m.MergeFilesSkipped.Inc()
	m.MergeRuns.WithLabelValues("ok").Inc()

	assert.Equal(t, 2.0, counterValue(t, m.EvaluationsSaved.WithLabelValues("alice")))
	assert.Equal(t, 1.0, counterValue(t, m.EvaluationsDeleted.WithLabelValues("bob")))
	assert.Equal(t, 3.0, counterValue(t, m.MergeFilesRead))
	assert.Equal(t, 1.0, counterValue(t, m.MergeFilesSkipped))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration
	a := NewMetrics()
	b := NewMetrics()
	a.MergeFilesRead.Inc()

	assert.Equal(t, 0.0, counterValue(t, b.MergeFilesRead))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.EvaluationsSaved.WithLabelValues("alice").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `interview_check_evaluations_saved_total{interviewer="alice"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_TrackPendingDeletes(t *testing.T) {
	m := NewMetrics()
	pending := 2
	m.TrackPendingDeletes(func() int { return pending })

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var got *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "interview_check_delete_confirmations_pending" {
			got = f
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, 2.0, got.GetMetric()[0].GetGauge().GetValue())
}
