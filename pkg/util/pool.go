package util

import "runtime"

// GetOptimalPoolSize returns min(max(2×NumCPU, 4), 32).
//
// Parsing is CGO-bound, so twice the core count keeps every core busy while
// goroutines sit in C calls. Parser pools and the indexer's worker pool both
// use this value so workers never wait on a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// PoolSizeOrDefault returns override when positive, else GetOptimalPoolSize.
func PoolSizeOrDefault(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
