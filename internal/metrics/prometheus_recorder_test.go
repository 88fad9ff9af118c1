package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveRequestDuration("list_employees", 150*time.Millisecond, true)
	pr.IncOperationResult("add", ResultConflict)
	pr.IncOperationResult("add", ResultConflict)
	pr.IncOperationResult("add", ResultSuccess)
	pr.SetRosterSize(4)
	pr.SetRefreshInFlight(1)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "," + lp.GetName() + "=" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["hrmslite_operation_results_total,operation=add,result=conflict"])
	assert.Equal(t, 1.0, values["hrmslite_operation_results_total,operation=add,result=success"])
	assert.Equal(t, 4.0, values["hrmslite_roster_size"])
	assert.Equal(t, 1.0, values["hrmslite_roster_refresh_in_flight"])
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetRosterSize(2)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "hrmslite_roster_size 2"), body)
	assert.Contains(t, body, "go_goroutines")
}
