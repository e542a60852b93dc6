package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewRecorder(reg)
	r.IncScan("CHECKED_IN", OutcomeRecorded)
	r.IncScan("CHECKED_IN", OutcomeDuplicate)
	r.IncList("bus")
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestRecorderNilRegistry(t *testing.T) {
	r := NewRecorder(nil)
	if r.Registry() == nil {
		t.Fatal("expected a private registry")
	}
}
