package apidance

import (
	"math/rand"
	"time"
)

// BackoffConfig controls the wait between retry attempts.
type BackoffConfig struct {
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	JitterPct   float64
}

// defaultBackoff is used when ClientConfig leaves Backoff zero.
var defaultBackoff = BackoffConfig{
	InitialWait: 1 * time.Second,
	MaxWait:     30 * time.Second,
	Multiplier:  2.0,
	JitterPct:   0.2,
}

// Duration returns the wait before retry number attempt (0-based), growing
// exponentially up to MaxWait, with +/-JitterPct random jitter.
func (c BackoffConfig) Duration(attempt int) time.Duration {
	wait := float64(c.InitialWait)
	for i := 0; i < attempt; i++ {
		wait *= c.Multiplier
		if wait >= float64(c.MaxWait) {
			wait = float64(c.MaxWait)
			break
		}
	}
	if c.JitterPct > 0 {
		jitter := wait * c.JitterPct
		wait = wait - jitter + rand.Float64()*2*jitter
	}
	if c.MaxWait > 0 && wait > float64(c.MaxWait) {
		wait = float64(c.MaxWait)
	}
	return time.Duration(wait)
}
