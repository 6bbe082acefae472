package scan

import (
	"errors"
	"time"

	"github.com/yaklabco/xml1/pkg/markup"
)

// ErrNoIterations is returned by Bench when asked for fewer than one iteration.
var ErrNoIterations = errors.New("iterations must be positive")

// BenchResult is the throughput of repeated full scans of one input.
type BenchResult struct {
	Engine     Engine        `json:"-"`
	EngineName string        `json:"engine"`
	Bytes      int           `json:"bytes"`
	Events     int           `json:"events"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsedNs"`
}

// MBPerSecond returns decimal megabytes scanned per second.
func (r BenchResult) MBPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) * float64(r.Iterations) / 1e6 / r.Elapsed.Seconds()
}

// PerScan returns the mean duration of one full scan.
func (r BenchResult) PerScan() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

// Bench scans src iterations times with engine, consuming events through a
// callback. Only the scans are timed.
func Bench(engine Engine, src string, opts markup.Options, iterations int) (BenchResult, error) {
	if iterations < 1 {
		return BenchResult{}, ErrNoIterations
	}

	result := BenchResult{Engine: engine, EngineName: engine.String(), Bytes: len(src), Iterations: iterations}

	var events int
	count := func(markup.Event) error {
		events++
		return nil
	}

	start := time.Now()
	for range iterations {
		events = 0
		if err := markup.Walk(New(engine, src, opts), count); err != nil {
			return BenchResult{}, err
		}
	}
	result.Elapsed = time.Since(start)
	result.Events = events

	return result, nil
}
