package service

import "time"

// Timer is a pending one-shot callback
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Controllers use it for banners that clear
// themselves; tests swap in a manual scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc
var RealScheduler Scheduler = realScheduler{}

// dismissal is a single cancellable pending callback. Arming again replaces
// the previous one. Not safe for concurrent use; callers hold their own lock.
type dismissal struct {
	sched Scheduler
	timer Timer
}

func (d *dismissal) arm(delay time.Duration, f func()) {
	d.cancel()
	d.timer = d.sched.AfterFunc(delay, f)
}

func (d *dismissal) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
