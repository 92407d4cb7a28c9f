package metrics

import (
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.VerticesIngestedTotal == nil {
		t.Error("VerticesIngestedTotal not initialized")
	}
	if r.QueriesTotal == nil {
		t.Error("QueriesTotal not initialized")
	}
	if r.ShardVertexCount == nil {
		t.Error("ShardVertexCount not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()
	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordVertexIngest(t *testing.T) {
	r := NewRegistry()

	r.RecordVertexIngest(10 * time.Microsecond)
	r.RecordVertexIngest(20 * time.Microsecond)

	var metric dto.Metric
	if err := r.VerticesIngestedTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("VerticesIngestedTotal = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordEdgeIngest(t *testing.T) {
	r := NewRegistry()

	r.RecordEdgeIngest(5 * time.Microsecond)

	var metric dto.Metric
	if err := r.EdgesIngestedTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("EdgesIngestedTotal = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordPropMismatch(t *testing.T) {
	r := NewRegistry()

	r.RecordPropMismatch("weight")
	r.RecordPropMismatch("weight")
	r.RecordPropMismatch("color")

	weightCounter, err := r.PropMismatchTotal.GetMetricWithLabelValues("weight")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := weightCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("weight mismatch counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordQuery(t *testing.T) {
	r := NewRegistry()

	r.RecordQuery("degree", "success", 50*time.Microsecond)

	counter, err := r.QueriesTotal.GetMetricWithLabelValues("degree", "success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Query counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestSetShardSizes(t *testing.T) {
	r := NewRegistry()

	r.SetShardSizes([]int{10, 20, 0}, []int{5, 15, 0})

	gauge, err := r.ShardVertexCount.GetMetricWithLabelValues("1")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 20 {
		t.Errorf("shard 1 vertex count = %v, want 20", metric.Gauge.GetValue())
	}
}

func TestConcurrentIngestMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordVertexIngest(time.Microsecond)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	var metric dto.Metric
	if err := r.VerticesIngestedTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1000 {
		t.Errorf("VerticesIngestedTotal = %v, want 1000", metric.Counter.GetValue())
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "chronograph_") {
			t.Errorf("Metric %s does not have chronograph_ prefix", name)
		}
	}
}

func BenchmarkRecordVertexIngest(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordVertexIngest(time.Microsecond)
	}
}
