package core

import "sync"

// AVG_COUNT is the number of recent bakes the rolling averages cover.
const AVG_COUNT uint8 = 30

// MetricsState accumulates descriptor update statistics for the process.
type MetricsState struct {
	Bakes           uint64
	FailedBakes     uint64
	Writes          uint64
	Elements        uint64
	WriteAVGCounter uint8
	RecentWrites    [AVG_COUNT]uint32
	WritesAVG       float64
}

var onceMetrics sync.Once
var metricsMutex sync.Mutex
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return nil
}

// MetricsRecordBake records a successful bake that sent writes driver writes
// covering elements array elements.
func MetricsRecordBake(writes, elements int) {
	MetricsInitialize()
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	metricsState.Bakes++
	metricsState.Writes += uint64(writes)
	metricsState.Elements += uint64(elements)

	metricsState.RecentWrites[metricsState.WriteAVGCounter] = uint32(writes)
	metricsState.WriteAVGCounter++
	metricsState.WriteAVGCounter %= AVG_COUNT

	n := uint64(AVG_COUNT)
	if metricsState.Bakes < n {
		n = metricsState.Bakes
	}
	var sum uint64
	for i := uint64(0); i < n; i++ {
		sum += uint64(metricsState.RecentWrites[i])
	}
	metricsState.WritesAVG = float64(sum) / float64(n)
}

func MetricsRecordFailedBake() {
	MetricsInitialize()
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsState.FailedBakes++
}

// Metrics returns a copy of the current statistics.
func Metrics() MetricsState {
	MetricsInitialize()
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return *metricsState
}

func MetricsReset() {
	MetricsInitialize()
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	*metricsState = MetricsState{}
}
