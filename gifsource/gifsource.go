// Package gifsource decodes animated GIF data into an imageview.Source.
//
// Each frame of a GIF is a patch over the accumulated canvas, subject
// to the previous frame's disposal method. Decode composites the
// patches eagerly so every frame handed to the view is a complete
// image; playback then never depends on frame order.
package gifsource

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/imageview"
)

// ErrNoFrames is returned when the GIF stream decodes to zero frames.
var ErrNoFrames = errors.New("gifsource: no frames")

// GIF disposal methods, per the gif package's encoding.
const (
	disposalNone       = 1
	disposalBackground = 2
	disposalPrevious   = 3
)

// Animation is an imageview.Source backed by a decoded GIF. Frames are
// fully composited at decode time; the per-frame delay and the
// stream's loop count are preserved.
type Animation struct {
	size   image.Point
	frames []frame
	repeat imageview.Repeat
}

type frame struct {
	img *image.NRGBA
	d   time.Duration
}

func (f frame) Image() image.Image      { return f.img }
func (f frame) Duration() time.Duration { return f.d }

// Decode reads a GIF stream from r and returns it as an animation
// source. Single-frame GIFs decode to a one-frame source with zero
// duration, which the view treats as a static image.
func Decode(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("gifsource: decode: %w", err)
	}
	return FromGIF(g)
}

// FromGIF converts an already-decoded gif.GIF into an animation
// source.
func FromGIF(g *gif.GIF) (*Animation, error) {
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	if g.Delay != nil && len(g.Delay) != len(g.Image) {
		return nil, fmt.Errorf("gifsource: mismatched image and delay counts: %d != %d",
			len(g.Image), len(g.Delay))
	}
	if g.Disposal != nil && len(g.Disposal) != len(g.Image) {
		return nil, fmt.Errorf("gifsource: mismatched image and disposal counts: %d != %d",
			len(g.Image), len(g.Disposal))
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	background := backgroundFill(g)

	a := &Animation{
		size:   bounds.Size(),
		frames: make([]frame, 0, len(g.Image)),
		repeat: loopPolicy(g.LoopCount),
	}

	canvas := image.NewNRGBA(bounds)
	for i, patch := range g.Image {
		var restore *image.NRGBA
		if g.Disposal != nil && g.Disposal[i] == disposalPrevious {
			restore = image.NewNRGBA(bounds)
			copy(restore.Pix, canvas.Pix)
		}

		draw.Copy(canvas, patch.Bounds().Min, patch, patch.Bounds(), draw.Over, nil)

		full := image.NewNRGBA(bounds)
		copy(full.Pix, canvas.Pix)
		a.frames = append(a.frames, frame{img: full, d: delayFor(g, i)})

		if g.Disposal == nil {
			continue
		}
		switch g.Disposal[i] {
		case disposalBackground:
			fill := background
			if fill == nil {
				fill = &image.Uniform{color.Transparent}
			}
			draw.Copy(canvas, patch.Bounds().Min, fill, patch.Bounds(), draw.Src, nil)
		case disposalPrevious:
			canvas = restore
		}
	}
	return a, nil
}

// Size returns the logical screen size of the GIF.
func (a *Animation) Size() image.Point { return a.size }

// FrameCount returns the number of composited frames.
func (a *Animation) FrameCount() int { return len(a.frames) }

// Frame returns composited frame i.
func (a *Animation) Frame(i int) imageview.Frame { return a.frames[i] }

// Repeat returns the playback policy encoded in the stream's loop
// count, suitable for imageview.View.SetRepeat.
func (a *Animation) Repeat() imageview.Repeat { return a.repeat }

// loopPolicy maps a gif.GIF LoopCount onto a repeat policy. The GIF
// convention is inverted from playback cycles: 0 loops forever, -1
// shows the sequence once, and n means n repetitions after the first
// showing.
func loopPolicy(loopCount int) imageview.Repeat {
	switch {
	case loopCount == 0:
		return imageview.Repeat{}
	case loopCount < 0:
		return imageview.RepeatCount(1)
	default:
		return imageview.RepeatCount(loopCount + 1)
	}
}

// delayFor returns frame i's delay. GIF delays are in hundredths of a
// second.
func delayFor(g *gif.GIF, i int) time.Duration {
	if g.Delay == nil {
		return 0
	}
	return 10 * time.Duration(g.Delay[i]) * time.Millisecond
}

// backgroundFill returns the global background color as a fill image,
// or nil when the stream has no usable global palette entry.
func backgroundFill(g *gif.GIF) image.Image {
	pal, ok := g.Config.ColorModel.(color.Palette)
	if !ok {
		return nil
	}
	idx := int(g.BackgroundIndex)
	if idx >= len(pal) {
		return nil
	}
	return &image.Uniform{pal[idx]}
}
