// Package parallel provides parallel loop helpers for the CPU backend.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how loops are split across goroutines.
type Config struct {
	// NumWorkers is the goroutine count. Values <= 1 run sequentially.
	NumWorkers int
	// MinGrain is the smallest loop size worth parallelizing; shorter
	// loops run sequentially to avoid scheduling overhead.
	MinGrain int
}

// DefaultConfig sizes the worker pool to the machine.
func DefaultConfig() Config {
	return Config{
		NumWorkers: runtime.NumCPU(),
		MinGrain:   64,
	}
}

// For executes f(i) for i in [0, n), splitting the range across workers.
// f must be safe to call concurrently for distinct i.
func For(n int, f func(i int), cfg Config) {
	if cfg.NumWorkers <= 1 || n < cfg.MinGrain {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := (n + cfg.NumWorkers - 1) / cfg.NumWorkers
	if chunk < cfg.MinGrain {
		chunk = cfg.MinGrain
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForBatch flattens a batch x channels iteration, the common layout of
// convolution and pooling loops.
func ForBatch(batch, channels int, f func(b, c int), cfg Config) {
	For(batch*channels, func(k int) {
		f(k/channels, k%channels)
	}, cfg)
}
