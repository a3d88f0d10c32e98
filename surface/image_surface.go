// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/imageview/internal/pixbuf"
)

// ImageSurface is a CPU compositor that renders into an *image.RGBA.
//
// It is the reference Compositor implementation, used by tests and by
// software presentation paths. Scaling blits use an x/image scaler
// (ApproxBiLinear by default).
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	bmp, _ := s.NewBitmap(surface.Descriptor{Width: 64, Height: 64, Format: surface.FormatRGBAPremul})
//	region, _ := bmp.Lock()
//	copy(region.Data, framePixels)
//	region.Close()
//	s.Draw(bmp, image.Rect(0, 0, 64, 64), image.Rect(0, 0, 128, 128), surface.BlendSourceOver)
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA

	// scaler performs the stretch blit when src and dst differ in size
	scaler xdraw.Scaler

	closed bool
}

// NewImageSurface creates a CPU compositor with the given target
// dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	return &ImageSurface{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		scaler: xdraw.ApproxBiLinear,
	}
}

// Width returns the target width in pixels.
func (s *ImageSurface) Width() int { return s.width }

// Height returns the target height in pixels.
func (s *ImageSurface) Height() int { return s.height }

// SetScaler replaces the scaler used for stretch blits.
// Pass e.g. xdraw.NearestNeighbor for pixel-art sources.
func (s *ImageSurface) SetScaler(scaler xdraw.Scaler) {
	if scaler != nil {
		s.scaler = scaler
	}
}

// Clear fills the entire target with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// NewBitmap allocates a CPU bitmap matching the descriptor.
func (s *ImageSurface) NewBitmap(desc Descriptor) (Bitmap, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	buf, err := pixbuf.New(desc.Width, desc.Height, desc.Format)
	if err != nil {
		return nil, err
	}
	return &memBitmap{desc: desc, buf: buf}, nil
}

// Draw composites bmp's src sub-rectangle into the dst sub-rectangle
// of the target. Unknown bitmap implementations are read through Lock.
func (s *ImageSurface) Draw(bmp Bitmap, src, dst image.Rectangle, mode BlendMode) {
	if s.closed || bmp == nil {
		return
	}

	if mode == BlendClear {
		draw.Draw(s.img, dst, image.Transparent, image.Point{}, draw.Src)
		return
	}

	srcImg := bitmapImage(bmp)
	if srcImg == nil {
		return
	}

	op := xdraw.Over
	if mode == BlendCopy {
		op = xdraw.Src
	}

	if src.Dx() == dst.Dx() && src.Dy() == dst.Dy() {
		xdraw.Copy(s.img, dst.Min, srcImg, src, op, nil)
		return
	}
	s.scaler.Scale(s.img, dst, srcImg, src, op, nil)
}

// Flush is a no-op for CPU surfaces.
func (s *ImageSurface) Flush() error { return nil }

// Close releases the target image. Close is idempotent.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}

// RGBA returns the target image. The returned image is live: later
// Draw calls mutate it. Returns nil after Close.
func (s *ImageSurface) RGBA() *image.RGBA {
	if s.closed {
		return nil
	}
	return s.img
}

// Snapshot returns a copy of the current target contents.
// Returns nil after Close.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	cp := image.NewRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return cp
}

// Capabilities returns the compositor's capabilities.
func (s *ImageSurface) Capabilities() Capabilities {
	return Capabilities{
		SupportsScaling:    true,
		SupportsBlendModes: true,
	}
}

// Verify interface satisfaction.
var (
	_ Compositor        = (*ImageSurface)(nil)
	_ CapableCompositor = (*ImageSurface)(nil)
)

// memBitmap is a CPU bitmap backed by a pixbuf.Buffer.
type memBitmap struct {
	desc   Descriptor
	buf    *pixbuf.Buffer
	closed bool
}

// Descriptor returns the bitmap's allocation descriptor.
func (b *memBitmap) Descriptor() Descriptor { return b.desc }

// Lock maps the pixel memory for CPU writes.
func (b *memBitmap) Lock() (*Region, error) {
	if b.closed {
		return nil, ErrBitmapClosed
	}
	return &Region{
		Data:    b.buf.Data(),
		Stride:  b.buf.Stride(),
		release: func() {},
	}, nil
}

// Close releases the pixel memory. Close is idempotent.
func (b *memBitmap) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.buf.Release()
	return nil
}

// bitmapImage exposes a bitmap's pixels as a standard image for
// compositing. Bitmaps from other compositors are read through Lock.
func bitmapImage(bmp Bitmap) image.Image {
	if mb, ok := bmp.(*memBitmap); ok {
		if mb.closed {
			return nil
		}
		return mb.buf.ToImage()
	}

	region, err := bmp.Lock()
	if err != nil {
		return nil
	}
	defer region.Close()

	desc := bmp.Descriptor()
	buf, err := pixbuf.FromRaw(region.Data, desc.Width, desc.Height, desc.Format, region.Stride)
	if err != nil {
		return nil
	}
	return buf.ToImage()
}
