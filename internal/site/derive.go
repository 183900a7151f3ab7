package site

import (
	"fmt"
	"math"
	"time"
)

// Rating derives the displayed star rating from the waitlist size n.
// Starts at 4.7, gains 0.01 per 100 joins, clamped at 5.0.
func Rating(n int) float64 {
	bonus := math.Min(float64(n)/100, 30) * 0.01
	return math.Min(math.Round((4.7+bonus)*10)/10, 5.0)
}

// FormatRating renders a rating to one decimal place with the star glyph.
func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f★", r)
}

// CounterValue is the animated counter position at the given elapsed time.
// The counter starts at max(0, target-12) and eases to target via cubic
// ease-out over the duration. Pure function of elapsed time; once the target
// is known no further input is needed.
func CounterValue(target int, elapsed, duration time.Duration) int {
	from := target - 12
	if from < 0 {
		from = 0
	}
	if duration <= 0 {
		return target
	}
	p := float64(elapsed) / float64(duration)
	if p >= 1 {
		return target
	}
	if p < 0 {
		p = 0
	}
	ease := 1 - math.Pow(1-p, 3)
	return int(math.Round(float64(from) + ease*float64(target-from)))
}
