package booking

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so that display windows can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock is backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
