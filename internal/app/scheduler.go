package app

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the callback; it reports false if the callback already
	// fired or was stopped before.
	Stop() bool
}

// Scheduler arms delayed callbacks. Sessions use it for bot answer latency and
// inter-question pacing; tests swap in a virtual-time implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// WallScheduler runs callbacks on real timers.
type WallScheduler struct{}

func (WallScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
