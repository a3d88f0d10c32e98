// Package timeline derives playback schedules for multi-frame raster
// images and resolves which frame is current for a given elapsed time.
//
// A Timeline is built once per source assignment and is immutable
// afterwards. Selection is a pure function over a Timeline, so callers
// may invoke it on every render tick without synchronization.
package timeline

import "time"

// Timeline is the derived schedule of an animation cycle.
type Timeline struct {
	// Offsets holds the cumulative start offset of each frame within
	// one cycle. Offsets[0] is always zero and the slice is
	// monotonically non-decreasing.
	Offsets []time.Duration

	// Total is the duration of one full cycle, the sum of all frame
	// durations. A zero Total means the source has no meaningful
	// animation.
	Total time.Duration
}

// Build derives a Timeline from per-frame display durations.
// An empty input yields the zero Timeline.
func Build(durations []time.Duration) Timeline {
	if len(durations) == 0 {
		return Timeline{}
	}
	offsets := make([]time.Duration, len(durations))
	var total time.Duration
	for i, d := range durations {
		offsets[i] = total
		total += d
	}
	return Timeline{Offsets: offsets, Total: total}
}

// FrameCount returns the number of frames in the schedule.
func (t Timeline) FrameCount() int {
	return len(t.Offsets)
}
