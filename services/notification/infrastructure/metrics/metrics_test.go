package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCreated("outbid")
	m.IncrementCreated("outbid")
	m.IncrementDuplicate()
	m.IncrementPushFailure()

	if got := testutil.ToFloat64(m.Created.WithLabelValues("outbid")); got != 2 {
		t.Fatalf("created{outbid}: got %v", got)
	}
	if got := testutil.ToFloat64(m.Duplicates); got != 1 {
		t.Fatalf("duplicates: got %v", got)
	}
	if got := testutil.ToFloat64(m.PushFailures); got != 1 {
		t.Fatalf("push failures: got %v", got)
	}
}
