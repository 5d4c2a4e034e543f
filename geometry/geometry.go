// Package geometry contains the interval and grid arithmetic used by the
// reservation scheduler and the floor layout engine.
package geometry

import (
	"math"
	"time"
)

// IntervalsOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SnapToGrid rounds value to the nearest multiple of gridSize, halves going up.
func SnapToGrid(value, gridSize float64) float64 {
	if gridSize <= 0 {
		return value
	}
	return math.Floor(value/gridSize+0.5) * gridSize
}

// Clamp limits value to [min, max]. When min > max the result is min.
func Clamp(value, min, max float64) float64 {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}
