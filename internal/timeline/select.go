package timeline

import "time"

// Repeat is a repeat-count policy for animation playback.
// The zero value repeats forever.
type Repeat struct {
	// Count is the number of full cycles to play before holding on the
	// final frame. Zero or negative means repeat forever.
	Count int
}

// Infinite reports whether the policy repeats forever.
func (r Repeat) Infinite() bool {
	return r.Count <= 0
}

// Kind classifies a selector result.
type Kind uint8

const (
	// NoAnimation means the timeline has no animation to play: the
	// source is static or every frame duration is zero.
	NoAnimation Kind = iota

	// Playing means Selection.Frame is the frame to display now.
	Playing

	// Held means a finite repeat policy has been exhausted; the final
	// frame is displayed forever.
	Held
)

// Selection is the selector's answer for one point in time.
type Selection struct {
	Kind  Kind
	Frame int
}

// Select resolves the frame that is current at elapsed time since the
// animation epoch began. It is total over its input domain: elapsed is
// assumed non-negative because the clock never rewinds within an epoch.
//
// The cycle position is computed with a duration modulus, so schedules
// with non-uniform frame durations resolve correctly. When the position
// lands exactly on a frame boundary, the frame starting at that
// boundary wins; zero-duration frames are therefore skipped over.
func Select(elapsed time.Duration, tl Timeline, policy Repeat) Selection {
	if tl.Total == 0 {
		return Selection{Kind: NoAnimation}
	}

	last := len(tl.Offsets) - 1
	if !policy.Infinite() {
		if cycles := elapsed / tl.Total; cycles >= time.Duration(policy.Count) {
			// Held always pins the final frame index, even when the
			// final frame itself has a zero duration.
			return Selection{Kind: Held, Frame: last}
		}
	}

	pos := elapsed % tl.Total
	frame := 0
	for i, off := range tl.Offsets {
		if off > pos {
			break
		}
		frame = i
	}
	return Selection{Kind: Playing, Frame: frame}
}
