package core

import "testing"

func TestMetricsRecordBake(t *testing.T) {
	MetricsReset()
	t.Cleanup(MetricsReset)

	MetricsRecordBake(2, 5)
	MetricsRecordBake(4, 4)
	MetricsRecordFailedBake()

	m := Metrics()
	if m.Bakes != 2 || m.FailedBakes != 1 {
		t.Fatalf("bakes = %d, failed = %d", m.Bakes, m.FailedBakes)
	}
	if m.Writes != 6 || m.Elements != 9 {
		t.Fatalf("writes = %d, elements = %d", m.Writes, m.Elements)
	}
	if m.WritesAVG != 3 {
		t.Fatalf("WritesAVG = %v, want 3", m.WritesAVG)
	}
}

func TestMetricsAverageWindow(t *testing.T) {
	MetricsReset()
	t.Cleanup(MetricsReset)

	for i := 0; i < int(AVG_COUNT); i++ {
		MetricsRecordBake(1, 1)
	}
	for i := 0; i < int(AVG_COUNT); i++ {
		MetricsRecordBake(3, 3)
	}
	if m := Metrics(); m.WritesAVG != 3 {
		t.Fatalf("WritesAVG = %v, old samples must fall out of the window", m.WritesAVG)
	}
}
