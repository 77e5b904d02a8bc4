package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNan reports whether any value held by A is NaN. Unsupported types are
// reported as not NaN.
func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case [2]float64:
		return IsNan(v[:])
	case [3]float64:
		return IsNan(v[:])
	case [][3]float64:
		for _, f := range v {
			if IsNan(f[:]) {
				return true
			}
		}
	}
	return false
}
