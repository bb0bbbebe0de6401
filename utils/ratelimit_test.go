package utils

import (
	"testing"
	"time"
)

func TestRateLimiterEnforcesGap(t *testing.T) {
	rl := NewRateLimiter(50)

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		rl.Wait()
		timestamps = append(timestamps, time.Now())
	}

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < 50*time.Millisecond {
			t.Errorf("gap between call %d and %d: %v < minimum 50ms", i-1, i, gap)
		}
	}
}

func TestRateLimiterZeroIntervalDoesNotBlock(t *testing.T) {
	rl := NewRateLimiter(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		rl.Wait()
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("unpaced Wait took %v", elapsed)
	}
}

func TestRateLimiterFirstCallImmediate(t *testing.T) {
	rl := NewRateLimiter(5000)
	start := time.Now()
	rl.Wait()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("first Wait should not block, took %v", elapsed)
	}
}
