package perf

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	jobmetrics "github.com/crewledger/crewledger/internal/jobs"
)

func TestSweepJobThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	// Simulate invoice sweeps finishing fast and mostly successful.
	for i := 0; i < 60; i++ {
		tracker := metrics.Track("reconcile:invoices")
		time.Sleep(12 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending invoice tracker: %v", err)
		}
	}

	// Timesheet sweeps do more work but still fit the 2s budget.
	for i := 0; i < 15; i++ {
		tracker := metrics.Track("reconcile:timesheets")
		time.Sleep(40 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending timesheet tracker: %v", err)
		}
	}

	// Inject a couple of failures to ensure alerts fire correctly.
	for i := 0; i < 3; i++ {
		tracker := metrics.Track("reconcile:invoices")
		time.Sleep(15 * time.Millisecond)
		if err := tracker.End(errors.New("timeout")); err == nil {
			t.Fatal("expected error to propagate")
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "crewledger_jobs_total", map[string]string{"job": "reconcile:invoices", "status": "success"})
	failure := metricValue(t, families, "crewledger_jobs_total", map[string]string{"job": "reconcile:invoices", "status": "failure"})
	if success+failure == 0 {
		t.Fatal("no invoice sweep executions recorded")
	}
	ratio := success / (success + failure)
	if ratio < 0.9 {
		t.Fatalf("invoice sweep success ratio too low: %f", ratio)
	}

	timesheetDuration := histogramMean(t, families, "crewledger_job_duration_seconds", map[string]string{"job": "reconcile:timesheets"})
	if timesheetDuration > 2.0 {
		t.Fatalf("timesheet sweep duration above budget: %f", timesheetDuration)
	}

	invoiceDuration := histogramMean(t, families, "crewledger_job_duration_seconds", map[string]string{"job": "reconcile:invoices"})
	if invoiceDuration > 0.5 {
		t.Fatalf("invoice sweep duration above budget: %f", invoiceDuration)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != val {
				return false
			}
		}
	}
	for key := range labels {
		found := false
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
