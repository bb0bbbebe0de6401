package utils

import "time"

// RateLimiter paces sequential outbound API calls. The run is
// single-threaded, so this only has to stretch the gap between
// consecutive requests, not coordinate goroutines.
type RateLimiter struct {
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a RateLimiter enforcing at least intervalMs
// milliseconds between calls to Wait. Zero disables pacing.
func NewRateLimiter(intervalMs int) *RateLimiter {
	return &RateLimiter{
		minInterval: time.Duration(intervalMs) * time.Millisecond,
	}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, then records the current time as the new reference point.
func (r *RateLimiter) Wait() {
	if r.minInterval <= 0 {
		r.lastRequest = time.Now()
		return
	}
	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval && !r.lastRequest.IsZero() {
		time.Sleep(r.minInterval - elapsed)
	}
	r.lastRequest = time.Now()
}
