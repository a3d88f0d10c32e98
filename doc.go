// Package imageview displays possibly-animated raster images through a
// host compositor.
//
// The package is built from three cooperating parts. A frame timeline
// turns per-frame display durations into cumulative offsets and a
// total cycle duration. A playback selector maps elapsed wall-clock
// time onto that timeline under a repeat-count policy, answering
// "which frame is current right now". The View ties them to a
// compositor: it owns a format-converted copy of the source's frames
// and a presentation bitmap, transfers the selected frame's pixels
// with a single bulk copy whenever the answer changes, and re-requests
// the next render tick from the host scheduler.
//
// Basic use with the CPU compositor:
//
//	comp := surface.NewImageSurface(320, 240)
//	v, err := imageview.New(comp)
//	if err != nil { ... }
//	defer v.Close()
//
//	anim, err := gifsource.Decode(f)
//	if err != nil { ... }
//	v.SetSource(anim)
//	v.SetRepeat(anim.Repeat())
//
//	for running {
//	    v.Tick(time.Since(start))
//	    v.Present(v.DestRect(comp.RGBA().Bounds()))
//	}
//
// Views are single-threaded: every operation runs on the goroutine
// driving the host's draw cycle.
package imageview
