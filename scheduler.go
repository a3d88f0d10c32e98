package imageview

import "time"

// TickFunc receives the elapsed time of a render tick. Elapsed values
// come from the host's monotonic render clock and never decrease while
// a view is live.
type TickFunc func(elapsed time.Duration)

// Scheduler is the host redraw scheduler. RequestTick registers a
// one-shot callback for the next render tick; the view re-registers
// itself at the end of every tick, so registration is issued anew each
// frame rather than held as a recurring subscription.
type Scheduler interface {
	RequestTick(fn TickFunc)
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn TickFunc)

// RequestTick calls f(fn).
func (f SchedulerFunc) RequestTick(fn TickFunc) { f(fn) }

// Invalidator receives visual-dirty notifications. The host uses them
// to schedule a redraw of the view's on-screen region.
type Invalidator interface {
	Invalidate()
}

// InvalidateFunc adapts a function to the Invalidator interface.
type InvalidateFunc func()

// Invalidate calls f.
func (f InvalidateFunc) Invalidate() { f() }
