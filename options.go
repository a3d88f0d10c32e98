package imageview

import (
	"github.com/gogpu/imageview/stretch"
	"github.com/gogpu/imageview/surface"
)

// Option configures a View during creation.
//
// Example:
//
//	v, err := imageview.New(comp,
//	    imageview.WithStretch(stretch.UniformToFill),
//	    imageview.WithFormat(surface.FormatBGRAPremul),
//	)
type Option func(*View)

// WithFormat sets the presentation pixel format. Converted source
// copies and the presentation bitmap both use it. The default is
// surface.FormatRGBAPremul.
func WithFormat(f surface.Format) Option {
	return func(v *View) {
		v.format = f
	}
}

// WithScale sets the DPI scale reported to the compositor when the
// presentation bitmap is allocated. The default is 1.
func WithScale(scale float64) Option {
	return func(v *View) {
		if scale > 0 {
			v.scale = scale
		}
	}
}

// WithStretch sets how the content is resized into the arranged box.
// The default is stretch.Uniform.
func WithStretch(s stretch.Stretch) Option {
	return func(v *View) {
		v.mode = s
	}
}

// WithStretchDirection constrains the scaling direction.
// The default is stretch.Both.
func WithStretchDirection(d stretch.Direction) Option {
	return func(v *View) {
		v.dir = d
	}
}

// WithBlendMode sets the blend mode handed to the compositor on
// Present. The default is surface.BlendSourceOver.
func WithBlendMode(mode surface.BlendMode) Option {
	return func(v *View) {
		v.blend = mode
	}
}

// WithRepeat sets the initial repeat policy. The default repeats
// forever.
func WithRepeat(policy Repeat) Option {
	return func(v *View) {
		v.repeat = policy
	}
}

// WithScheduler connects the host redraw scheduler the view
// re-registers with after every tick. Without a scheduler the view is
// driven only by explicit Tick calls.
func WithScheduler(s Scheduler) Option {
	return func(v *View) {
		v.sched = s
	}
}

// WithInvalidator connects the host's visual-dirty notification.
func WithInvalidator(inv Invalidator) Option {
	return func(v *View) {
		v.inval = inv
	}
}
