// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	counter := Counter("positions_opened_count")
	counterVec := CounterVec("auth_failure_count", []string{"op"})
	gauge := Gauge("active_positions_gauge")
	hist := Histogram("operation_duration_ms", Bucket10s)

	counter.Add(1)
	counter.Add(2)

	histTotal := 0
	for i := 0; i < 10; i++ {
		hist.Observe(int64(i))
		histTotal += i
	}

	vecTotal := 0
	for i := 0; i < 6; i++ {
		counterVec.AddWithLabel(int64(i), map[string]string{"op": strconv.Itoa(i % 2)})
		vecTotal += i
	}

	gauge.Add(5)
	gauge.Add(-2)

	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	metricFamilies, err := gatherers.Gather()
	require.NoError(t, err)

	families := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		families[mf.GetName()] = mf
	}

	require.Equal(t, float64(3), families["tierlock_metrics_positions_opened_count"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(histTotal), families["tierlock_metrics_operation_duration_ms"].Metric[0].GetHistogram().GetSampleSum())

	sumVec := families["tierlock_metrics_auth_failure_count"].Metric[0].GetCounter().GetValue() +
		families["tierlock_metrics_auth_failure_count"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(vecTotal), sumVec)

	require.Equal(t, float64(3), families["tierlock_metrics_active_positions_gauge"].Metric[0].GetGauge().GetValue())
}

func TestHTTPHandler(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("handler_probe_count").Add(1)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.NoError(t, err)
	require.Contains(t, families, "tierlock_metrics_handler_probe_count")
}

func TestLazyLoading(t *testing.T) {
	lazyCounter := LazyLoadCounter("lazy_probe_count")
	lazyGauge := LazyLoadGauge("lazy_probe_gauge")

	InitializePrometheusMetrics()

	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promGaugeMeter{}, lazyGauge())
}
