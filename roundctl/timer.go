// Package roundctl holds the round-robin scheduler and the one-shot round
// timer (spec §4.3, §4.6).
package roundctl

import "time"

// RoundTimelimitDelta is added to RoundDuration to form the timeout armed
// for each round, giving peers slack beyond the rate-limit sleep before a
// round is declared stalled (spec §4.3).
const RoundTimelimitDelta = 10 * time.Second

// DefaultRoundDuration is the default round_duration, the same value the
// CLI's --duration flag defaults to. Timer does not apply it: a zero
// round duration passed to Restart stays zero.
const DefaultRoundDuration = 60 * time.Second

// Timer is a one-shot, restartable deadline. Restart cancels any pending
// deadline and arms a new one; a single firing is delivered on C().
type Timer struct {
	t *time.Timer
	c chan struct{}
}

// NewTimer returns a Timer with nothing armed.
func NewTimer() *Timer {
	return &Timer{c: make(chan struct{}, 1)}
}

// C returns the channel a round-timeout tick is delivered on.
func (r *Timer) C() <-chan struct{} {
	return r.c
}

// Restart cancels any pending deadline and arms a new one for
// roundDuration + RoundTimelimitDelta.
func (r *Timer) Restart(roundDuration time.Duration) {
	r.Stop()
	dur := roundDuration + RoundTimelimitDelta

	// drain a stale tick that raced with the previous Stop
	select {
	case <-r.c:
	default:
	}

	r.t = time.AfterFunc(dur, func() {
		select {
		case r.c <- struct{}{}:
		default:
		}
	})
}

// Stop cancels the pending deadline without firing.
func (r *Timer) Stop() {
	if r.t != nil {
		r.t.Stop()
	}
}
