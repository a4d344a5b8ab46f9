package session

import "time"

// Timer is a cancellable deferred callback. Stop after firing is a safe
// no-op.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so session lifetimes can be tested with a fake
// clock advancing past expiry.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

type realTimer struct {
	t *time.Timer
}

// NewRealClock returns the wall clock.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (rt realTimer) Stop() bool {
	return rt.t.Stop()
}
