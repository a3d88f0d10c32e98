// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"

	"github.com/gogpu/imageview/internal/pixbuf"
)

// Common errors returned by compositor operations.
var (
	// ErrSurfaceClosed is returned when operations are attempted on a
	// closed compositor.
	ErrSurfaceClosed = errors.New("surface: compositor is closed")

	// ErrBitmapClosed is returned when a closed bitmap is locked.
	ErrBitmapClosed = errors.New("surface: bitmap is closed")
)

// Format is the pixel format vocabulary shared between views and
// compositors. It is an alias for the internal buffer format.
type Format = pixbuf.Format

// Pixel formats.
const (
	// FormatRGBA8 is 32-bit RGBA with straight alpha.
	FormatRGBA8 = pixbuf.RGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	// This is the default presentation format.
	FormatRGBAPremul = pixbuf.RGBAPremul

	// FormatBGRA8 is 32-bit BGRA with straight alpha. Common on
	// Windows compositors and some GPU surface formats.
	FormatBGRA8 = pixbuf.BGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha.
	FormatBGRAPremul = pixbuf.BGRAPremul
)

// Descriptor describes a bitmap for compositor allocation: pixel
// dimensions, DPI scale, and the channel layout / alpha convention the
// compositor expects to receive.
type Descriptor struct {
	// Width and Height are the bitmap dimensions in pixels.
	Width  int
	Height int

	// Scale is the DPI scale (device pixels per logical pixel).
	// Zero means 1.
	Scale float64

	// Format is the channel layout and alpha convention of the pixel
	// memory the compositor will read.
	Format pixbuf.Format
}

// Region is a scoped CPU-write mapping of a bitmap's pixel memory.
// It is valid until Close; writes after Close are undefined.
//
//	region, err := bmp.Lock()
//	if err != nil { ... }
//	copy(region.Data, frame)
//	region.Close()
type Region struct {
	// Data is the writable pixel memory. Its length is the bitmap's
	// full byte size, stride padding included.
	Data []byte

	// Stride is the number of bytes per row.
	Stride int

	release func()
}

// NewRegion wraps pixel memory as a write mapping. release, which may
// be nil, runs once when the region is closed; compositor
// implementations use it to flag the bitmap for re-upload.
func NewRegion(data []byte, stride int, release func()) *Region {
	return &Region{Data: data, Stride: stride, release: release}
}

// Close ends the CPU-write access. Close is idempotent.
func (r *Region) Close() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// Bitmap is a compositor-owned pixel bitmap. The pipeline writes
// frames into it through Lock and the compositor reads from it during
// Draw.
//
// Bitmaps are NOT thread-safe; a bitmap belongs to the single
// goroutine driving the draw cycle.
type Bitmap interface {
	// Descriptor returns the bitmap's allocation descriptor.
	Descriptor() Descriptor

	// Lock maps the pixel memory for CPU writes. The returned Region
	// must be closed before the bitmap is drawn.
	Lock() (*Region, error)

	// Close releases the bitmap's resources. Close is idempotent;
	// a closed bitmap cannot be locked or drawn.
	Close() error
}

// BlendMode specifies how bitmap pixels are combined with the
// destination during Draw.
type BlendMode uint8

const (
	// BlendSourceOver is the default Porter-Duff source-over mode.
	BlendSourceOver BlendMode = iota

	// BlendCopy replaces destination pixels with source pixels.
	BlendCopy

	// BlendClear clears the destination rectangle; the bitmap's
	// pixels are ignored.
	BlendClear
)

// Compositor owns on-screen bitmaps and composites them into a
// rendering target. Implementations may be CPU surfaces, windowing
// back-ends, or GPU texture uploaders.
//
// Compositors are NOT thread-safe. Each compositor should be used from
// a single goroutine.
type Compositor interface {
	// NewBitmap allocates a bitmap matching the descriptor.
	NewBitmap(desc Descriptor) (Bitmap, error)

	// Draw composites the bitmap's src sub-rectangle into the dst
	// sub-rectangle of the target, scaling when the two differ, using
	// the given blend mode. Bitmaps not allocated by this compositor
	// and closed bitmaps are ignored.
	Draw(bmp Bitmap, src, dst image.Rectangle, mode BlendMode)

	// Flush ensures all pending compositing operations are complete.
	// For CPU compositors this is typically a no-op.
	Flush() error

	// Close releases all resources associated with the compositor.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Capabilities describes optional features a compositor supports.
type Capabilities struct {
	// SupportsScaling indicates Draw can handle src/dst rectangles of
	// different sizes.
	SupportsScaling bool

	// SupportsBlendModes indicates blend modes beyond BlendSourceOver
	// are honored.
	SupportsBlendModes bool

	// MaxWidth is the maximum supported bitmap width (0 = unlimited).
	MaxWidth int

	// MaxHeight is the maximum supported bitmap height (0 = unlimited).
	MaxHeight int
}

// CapableCompositor is an optional interface for querying compositor
// capabilities.
type CapableCompositor interface {
	Compositor

	// Capabilities returns the compositor's capabilities.
	Capabilities() Capabilities
}
