// Package metrics records render and build metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	h := render.NewHandler(render.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder backs the recorder with client_golang collectors. The CLI
// either serves them over HTTP (watch --metrics-listen) or writes the text
// exposition to a file after each build (render --metrics-file), which suits
// the node_exporter textfile collector.
package metrics
