package imageview

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/imageview/internal/pixbuf"
	"github.com/gogpu/imageview/internal/timeline"
	"github.com/gogpu/imageview/stretch"
	"github.com/gogpu/imageview/surface"
)

// Common errors returned by View operations.
var (
	// ErrViewClosed is returned when operations are attempted on a
	// closed view.
	ErrViewClosed = errors.New("imageview: view is closed")

	// ErrNilCompositor is returned when a nil compositor is passed to New.
	ErrNilCompositor = errors.New("imageview: nil compositor")
)

// Repeat is the playback repeat policy. The zero value repeats
// forever; a positive Count plays that many full cycles and then holds
// on the final frame.
type Repeat = timeline.Repeat

// RepeatCount returns a policy that plays n full cycles and then holds
// on the final frame. n <= 0 repeats forever.
func RepeatCount(n int) Repeat {
	return Repeat{Count: n}
}

// View displays a possibly-animated raster image through a host
// compositor. It owns a format-converted copy of the source's frames
// and a presentation bitmap sized to the source; on every render tick
// it resolves the frame that is current for the elapsed time and, when
// the frame changed, block-copies its pixels into the bitmap.
//
// A View is NOT thread-safe: all operations run on the single
// goroutine driving the host's draw/update cycle, so ticks never
// overlap and no locking guards the animation clock or the buffers.
type View struct {
	comp  surface.Compositor
	sched Scheduler
	inval Invalidator

	format surface.Format
	scale  float64
	mode   stretch.Stretch
	dir    stretch.Direction
	blend  surface.BlendMode

	source Source
	repeat Repeat

	// Converted source copy and presentation bitmap. Created together
	// on source assignment, released together on replacement, clear,
	// or Close.
	frames []*pixbuf.Buffer
	bitmap surface.Bitmap
	tl     timeline.Timeline

	// Animation clock. start is valid only while started is true; it
	// is armed on the first tick of an epoch.
	started bool
	start   time.Duration

	// current is the frame index last transferred into the bitmap,
	// -1 when the bitmap is absent.
	current int

	closed bool
}

// New creates a view that presents through comp.
func New(comp surface.Compositor, opts ...Option) (*View, error) {
	if comp == nil {
		return nil, ErrNilCompositor
	}

	v := &View{
		comp:    comp,
		format:  surface.FormatRGBAPremul,
		scale:   1,
		mode:    stretch.Uniform,
		dir:     stretch.Both,
		blend:   surface.BlendSourceOver,
		current: -1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// SetSource replaces the displayed image and resets the animation
// clock. A nil source clears the view: both the converted copy and the
// presentation bitmap are released and subsequent Present calls are
// no-ops.
//
// On conversion or allocation failure the prior content has already
// been released and the view is left empty; no resources leak on any
// exit path.
func (v *View) SetSource(src Source) error {
	if v.closed {
		return ErrViewClosed
	}

	v.releaseContent()
	v.resetClock()
	if src == nil {
		v.invalidate()
		return nil
	}

	n := src.FrameCount()
	if n == 0 {
		return nil
	}

	imgs := make([]image.Image, n)
	durations := make([]time.Duration, n)
	for i := 0; i < n; i++ {
		f := src.Frame(i)
		imgs[i] = f.Image()
		durations[i] = f.Duration()
	}
	frames, err := pixbuf.FromImages(imgs, v.format)
	if err != nil {
		return fmt.Errorf("imageview: convert frames: %w", err)
	}

	size := src.Size()
	bmp, err := v.comp.NewBitmap(surface.Descriptor{
		Width:  size.X,
		Height: size.Y,
		Scale:  v.scale,
		Format: v.format,
	})
	if err != nil {
		releaseAll(frames)
		return fmt.Errorf("imageview: allocate presentation bitmap: %w", err)
	}

	v.source = src
	v.frames = frames
	v.bitmap = bmp
	v.tl = timeline.Build(durations)
	Logger().Debug("source assigned",
		"frames", n, "width", size.X, "height", size.Y, "cycle", v.tl.Total)

	// Seed the bitmap with the first frame so static images display
	// without waiting for a tick.
	v.transfer(0)
	return nil
}

// SetRepeat replaces the repeat policy and resets the animation clock;
// buffers are left intact. The next tick starts a new epoch from the
// first frame.
func (v *View) SetRepeat(policy Repeat) {
	if v.closed {
		return
	}
	v.repeat = policy
	v.resetClock()
}

// Source returns the current source, nil when the view is empty.
func (v *View) Source() Source { return v.source }

// CurrentFrame returns the index of the frame last transferred into
// the presentation bitmap, or -1 when the view is empty.
func (v *View) CurrentFrame() int { return v.current }

// Tick advances playback to the host clock's elapsed time. The first
// tick after a source or repeat-policy change starts the epoch. When
// the resolved frame differs from the one already presented, its
// pixels are transferred into the presentation bitmap and the host is
// notified that the visual changed.
//
// Tick always re-registers with the scheduler while the view is live —
// the host's redraw-request mechanism is also the view's only source
// of timing ticks — and stops doing so once the view is closed.
func (v *View) Tick(elapsed time.Duration) {
	if v.closed {
		return
	}
	defer v.requestNext()

	if v.bitmap == nil {
		return
	}
	if !v.started {
		v.started = true
		v.start = elapsed
	}

	sel := timeline.Select(elapsed-v.start, v.tl, v.repeat)
	switch sel.Kind {
	case timeline.NoAnimation:
		// Static or degenerate source; the seeded first frame stays.
	default:
		if sel.Frame != v.current {
			v.transfer(sel.Frame)
		}
	}
}

// MeasureSize returns the desired size of the view given the available
// box, applying the stretch policy to the content size. A view without
// a source desires zero size.
func (v *View) MeasureSize(box image.Point) image.Point {
	if v.source == nil {
		return image.Point{}
	}
	return stretch.MeasureSize(v.mode, v.dir, box, v.source.Size())
}

// DestRect returns the destination rectangle the content occupies
// within the arranged bounds, per the stretch policy.
func (v *View) DestRect(bounds image.Rectangle) image.Rectangle {
	if v.source == nil {
		return image.Rectangle{}
	}
	return stretch.DestRect(v.mode, v.dir, bounds, v.source.Size())
}

// Present hands the presentation bitmap to the compositor for a blit
// into dst. It reports whether anything was drawn; a view without
// content draws nothing.
func (v *View) Present(dst image.Rectangle) bool {
	if v.closed || v.bitmap == nil {
		return false
	}
	src := image.Rectangle{Max: v.source.Size()}
	v.comp.Draw(v.bitmap, src, dst, v.blend)
	return true
}

// Close releases the converted source copy and the presentation
// bitmap. Close is idempotent; a closed view ignores ticks and draws
// nothing.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.releaseContent()
	return nil
}

// transfer block-copies frame i into the presentation bitmap and
// signals the host that the visual changed.
func (v *View) transfer(i int) {
	region, err := v.bitmap.Lock()
	if err != nil {
		Logger().Warn("presentation bitmap lock failed", "err", err)
		return
	}
	defer region.Close()

	src := v.frames[i]
	desc := v.bitmap.Descriptor()
	var n int
	if dst, err := pixbuf.FromRaw(region.Data, desc.Width, desc.Height, desc.Format, region.Stride); err == nil {
		n = dst.CopyFrom(src)
	} else {
		// Region smaller than its descriptor promises; copy clamps to
		// the shorter length on its own.
		n = copy(region.Data, src.Data())
	}
	if n < src.ByteSize() || n < len(region.Data) {
		Logger().Debug("clamped frame transfer", "frame", i, "copied", n,
			"frame_bytes", src.ByteSize(), "bitmap_bytes", len(region.Data))
	}

	v.current = i
	v.invalidate()
}

// releaseContent releases the converted copy and the presentation
// bitmap together. Release is unconditional: no exit path skips it.
func (v *View) releaseContent() {
	releaseAll(v.frames)
	v.frames = nil
	if v.bitmap != nil {
		_ = v.bitmap.Close()
		v.bitmap = nil
	}
	v.tl = timeline.Timeline{}
	v.current = -1
	v.source = nil
}

// resetClock unsets the animation start; the next tick begins a new
// epoch.
func (v *View) resetClock() {
	v.started = false
	v.start = 0
}

func (v *View) requestNext() {
	if v.sched != nil {
		v.sched.RequestTick(v.Tick)
	}
}

func (v *View) invalidate() {
	if v.inval != nil {
		v.inval.Invalidate()
	}
}

func releaseAll(frames []*pixbuf.Buffer) {
	for _, f := range frames {
		f.Release()
	}
}
