package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Scan outcomes.
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Recorder tracks manifest scan activity on a dedicated registry.
type Recorder struct {
	registry *prom.Registry
	scans    *prom.CounterVec
	lists    *prom.CounterVec
}

// NewRecorder constructs and registers the scan metrics. Pass nil to get a
// private registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{registry: reg}
	r.scans = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "busmanifest",
		Name:      "scans_total",
		Help:      "Manifest scans by status and outcome",
	}, []string{"status", "outcome"})
	r.lists = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "busmanifest",
		Name:      "list_queries_total",
		Help:      "Manifest list queries by scope",
	}, []string{"scope"})
	reg.MustRegister(r.scans, r.lists)
	return r
}

// Registry exposes the backing registry for the HTTP handler.
func (r *Recorder) Registry() *prom.Registry {
	return r.registry
}

// IncScan counts one scan attempt.
func (r *Recorder) IncScan(status, outcome string) {
	r.scans.WithLabelValues(status, outcome).Inc()
}

// IncList counts one list query.
func (r *Recorder) IncList(scope string) {
	r.lists.WithLabelValues(scope).Inc()
}
