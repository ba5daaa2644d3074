// ABOUTME: Backoff helper for retrying OpenAI API calls
// ABOUTME: Exponential delay with jitter, shared by embedding and chat paths
package util

import (
	"math/rand/v2"
	"time"
)

const maxBackoff = 30 * time.Second

// Backoff returns the delay to sleep before the given retry attempt.
// The delay doubles per attempt starting from base, is capped at 30s,
// and carries random jitter of up to ±25% to avoid thundering herds.
// Attempt 0 (the initial call) gets no delay.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		// Past this point the shift would overflow; the cap applies anyway.
		attempt = 30
	}
	d := base * time.Duration(1<<uint(attempt))
	if d <= 0 {
		// A zero base means retry immediately; there is nothing to jitter.
		return 0
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(d)/2)) - d/4
	return d + jitter
}
