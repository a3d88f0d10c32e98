package imageview

import (
	"image"
	"time"
)

// Frame is one still image of a Source with its own display duration.
type Frame interface {
	// Image returns the frame's decoded pixels. The view reads the
	// image once per source assignment, during format conversion, and
	// never mutates it.
	Image() image.Image

	// Duration returns how long the frame is displayed. A zero
	// duration means the frame is shown instantaneously; playback
	// relies on the next frame.
	Duration() time.Duration
}

// Source is an immutable, decoded, possibly multi-frame raster image
// owned externally. All frames share the same pixel dimensions.
//
// A Source may be shared between views and with other consumers; the
// view only ever reads it.
type Source interface {
	// Size returns the pixel dimensions shared by all frames.
	Size() image.Point

	// FrameCount returns the number of frames. Static images report 1.
	FrameCount() int

	// Frame returns frame i. i must be in [0, FrameCount).
	Frame(i int) Frame
}

// StaticSource adapts a single image.Image to the Source interface.
type StaticSource struct {
	img image.Image
}

// NewStaticSource wraps img as a single-frame source.
func NewStaticSource(img image.Image) *StaticSource {
	return &StaticSource{img: img}
}

// Size returns the image dimensions.
func (s *StaticSource) Size() image.Point {
	return s.img.Bounds().Size()
}

// FrameCount returns 1.
func (s *StaticSource) FrameCount() int { return 1 }

// Frame returns the single frame. Its duration is zero, so the view
// treats the source as static.
func (s *StaticSource) Frame(i int) Frame {
	return staticFrame{img: s.img}
}

type staticFrame struct {
	img image.Image
}

func (f staticFrame) Image() image.Image      { return f.img }
func (f staticFrame) Duration() time.Duration { return 0 }
