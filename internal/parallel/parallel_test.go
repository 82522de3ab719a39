package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForVisitsEveryIndex(t *testing.T) {
	cfg := DefaultConfig()

	seen := make([]int32, 1000)
	For(len(seen), func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times", i, v)
		}
	}
}

func TestForSequentialFallback(t *testing.T) {
	cfg := Config{NumWorkers: 1}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("got %d calls, want 100", counter)
	}
}

func TestForBelowGrainRunsSequentially(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinGrain - 1
	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("got %d calls, want %d", counter, n)
	}
}

func TestForBatch(t *testing.T) {
	cfg := DefaultConfig()

	batch, channels := 4, 32
	seen := make([][]bool, batch)
	for b := range seen {
		seen[b] = make([]bool, channels)
	}

	ForBatch(batch, channels, func(b, c int) {
		seen[b][c] = true
	}, cfg)

	for b := range seen {
		for c := range seen[b] {
			if !seen[b][c] {
				t.Errorf("missing visit at batch %d channel %d", b, c)
			}
		}
	}
}
