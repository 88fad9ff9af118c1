// Package metrics provides observability hooks for hrmslite.
//
// Components receive a Recorder through injection and default to NoopRecorder,
// so no caller needs nil checks. The watch command swaps in a PrometheusRecorder
// and serves it on the configured listen address:
//
//	reg := metrics.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	coord := coordinator.New(client, coordinator.WithRecorder(rec))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
