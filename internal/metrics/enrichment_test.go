package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterEnrichmentMetrics_Idempotent(t *testing.T) {
	RegisterEnrichmentMetrics()
	RegisterEnrichmentMetrics()

	ExternalCallFailuresTotal.WithLabelValues("search", "error").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "practicelink_external_call_failures_total" {
			found = true
		}
	}
	if !found {
		t.Error("practicelink_external_call_failures_total not registered")
	}
}

func TestTierLinksTotal(t *testing.T) {
	before := testutil.ToFloat64(TierLinksTotal.WithLabelValues("curated"))
	TierLinksTotal.WithLabelValues("curated").Add(2)
	if got := testutil.ToFloat64(TierLinksTotal.WithLabelValues("curated")) - before; got != 2 {
		t.Errorf("delta = %f, want 2", got)
	}
}
