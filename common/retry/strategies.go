package retry

import (
	"math/rand"
	"time"
)

// Strategy gives the pause after the failed attempt with index attempt.
type Strategy interface {
	Duration(attempt int) time.Duration
}

// ExponentialStrategy doubles the pause from Min on every attempt, caps it
// at Max, then adds a random jitter below MaxJitter.
type ExponentialStrategy struct {
	Min       time.Duration
	Max       time.Duration
	MaxJitter time.Duration
}

func (e *ExponentialStrategy) Duration(attempt int) time.Duration {
	dur := e.Min
	for i := 0; i < attempt && dur < e.Max; i++ {
		dur *= 2
	}
	if dur > e.Max {
		dur = e.Max
	}
	if e.MaxJitter > 0 {
		dur += time.Duration(rand.Int63n(int64(e.MaxJitter)))
	}
	return dur
}

// Exponential suits a database that is still starting up.
func Exponential() Strategy {
	return &ExponentialStrategy{
		Min:       time.Second,
		Max:       20 * time.Second,
		MaxJitter: 250 * time.Millisecond,
	}
}

type fixedStrategy time.Duration

func (f fixedStrategy) Duration(int) time.Duration {
	return time.Duration(f)
}

// Fixed pauses dur between every attempt.
func Fixed(dur time.Duration) Strategy {
	return fixedStrategy(dur)
}
