// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpupresent

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/imageview/internal/pixbuf"
	"github.com/gogpu/imageview/surface"
)

// Common errors returned by Presenter operations.
var (
	// ErrPresenterClosed is returned when operations are attempted on
	// a closed presenter.
	ErrPresenterClosed = errors.New("gpupresent: presenter is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpupresent: nil DeviceProvider")

	// ErrNoTarget is returned by Flush when Draw was called without a
	// texture drawer set for the pass.
	ErrNoTarget = errors.New("gpupresent: no draw target set")

	// ErrInvalidRenderer is returned when the draw target cannot
	// create textures.
	ErrInvalidRenderer = errors.New("gpupresent: target must provide a gpucontext.TextureCreator")

	// ErrInvalidTexture is returned when the created texture does not
	// implement gpucontext.Texture.
	ErrInvalidTexture = errors.New("gpupresent: created texture is not a gpucontext.Texture")
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Presenter is a surface.Compositor that uploads bitmap pixels to GPU
// textures and draws them through a gpucontext.TextureDrawer. The data
// flow per frame is:
//
//	Bitmap.Lock (CPU write) -> staging buffer -> GPU texture -> DrawTexture
//
// Textures are created lazily on first draw and updated in place while
// the bitmap size is unchanged. Dirty tracking skips the upload when
// the bitmap was not written since the last draw.
//
// Presenter is NOT safe for concurrent use; drive it from the
// goroutine that owns the draw cycle.
type Presenter struct {
	provider gpucontext.DeviceProvider
	target   gpucontext.TextureDrawer
	format   surface.Format
	lastErr  error
	closed   bool
}

// Verify interface satisfaction.
var (
	_ surface.Compositor        = (*Presenter)(nil)
	_ surface.CapableCompositor = (*Presenter)(nil)
)

// New creates a presenter for the given device provider. The provider
// should come from gogpu.App.GPUContextProvider().
func New(provider gpucontext.DeviceProvider) (*Presenter, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return &Presenter{
		provider: provider,
		format:   formatFor(provider.SurfaceFormat()),
	}, nil
}

// PreferredFormat returns the pixel format matching the provider's
// surface format, so bitmap memory carries the channel order the
// window composites in. Texture uploads themselves go through RGBA
// bytes; for BGRA formats the bitmap keeps a reusable swizzle buffer,
// so steady-state uploads do not allocate.
func (p *Presenter) PreferredFormat() surface.Format {
	return p.format
}

// SetTarget binds the texture drawer for the current draw pass. The
// drawer comes from the host's per-frame draw context and must be set
// before Draw; it is typically re-bound every frame.
func (p *Presenter) SetTarget(dc gpucontext.TextureDrawer) {
	p.target = dc
}

// NewBitmap allocates a bitmap with CPU staging memory and a lazily
// created GPU texture.
func (p *Presenter) NewBitmap(desc surface.Descriptor) (surface.Bitmap, error) {
	if p.closed {
		return nil, ErrPresenterClosed
	}
	buf, err := pixbuf.New(desc.Width, desc.Height, desc.Format)
	if err != nil {
		return nil, fmt.Errorf("gpupresent: allocate staging buffer: %w", err)
	}
	return &textureBitmap{desc: desc, buf: buf, dirty: true}, nil
}

// Draw uploads the bitmap's pixels if they changed and draws the
// texture with its top-left corner at dst.Min. DrawTexture places
// textures at native size, so src sub-rectangles and dst scaling are
// not honored; Capabilities reports this. Blend modes other than
// source-over are ignored.
//
// Draw matches the surface.Compositor contract and does not return an
// error; failures are reported by the next Flush.
func (p *Presenter) Draw(bmp surface.Bitmap, src, dst image.Rectangle, mode surface.BlendMode) {
	if p.closed || bmp == nil {
		return
	}
	if mode == surface.BlendClear {
		return
	}
	tb, ok := bmp.(*textureBitmap)
	if !ok || tb.closed {
		return
	}
	if p.target == nil {
		p.lastErr = ErrNoTarget
		return
	}

	tex, err := tb.flush(p.target)
	if err != nil {
		p.lastErr = err
		return
	}
	if err := p.target.DrawTexture(tex, float32(dst.Min.X), float32(dst.Min.Y)); err != nil {
		p.lastErr = fmt.Errorf("gpupresent: draw texture: %w", err)
	}
}

// Flush reports the first error recorded since the previous Flush.
// Uploads complete inside Draw, so there is no pending GPU work to
// wait on here.
func (p *Presenter) Flush() error {
	if p.closed {
		return ErrPresenterClosed
	}
	err := p.lastErr
	p.lastErr = nil
	return err
}

// Close releases the presenter. Bitmaps it allocated stay valid for
// CPU access but will no longer draw. Close is idempotent.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.target = nil
	p.provider = nil
	p.lastErr = nil
	return nil
}

// Capabilities reports the texture draw path's limits: no src/dst
// scaling and source-over only.
func (p *Presenter) Capabilities() surface.Capabilities {
	return surface.Capabilities{}
}

// formatFor maps a GPU surface format onto the bitmap pixel format the
// texture upload path expects. Texture uploads go through RGBA data,
// so only the alpha convention varies; BGRA surfaces additionally get
// a swizzle at upload time.
func formatFor(tf gputypes.TextureFormat) surface.Format {
	switch tf {
	case gputypes.TextureFormatBGRA8Unorm:
		return surface.FormatBGRAPremul
	default:
		return surface.FormatRGBAPremul
	}
}

// textureBitmap is a bitmap with CPU staging memory and a lazily
// created GPU texture.
type textureBitmap struct {
	desc   surface.Descriptor
	buf    *pixbuf.Buffer
	tex    gpucontext.Texture // lazily created on first flush
	oldTex gpucontext.Texture // previous texture awaiting deferred destruction

	// swizzle is the reusable RGBA copy of BGRA staging memory,
	// allocated once on the first upload.
	swizzle []byte

	dirty  bool
	closed bool
}

func (b *textureBitmap) Descriptor() surface.Descriptor { return b.desc }

// Lock maps the staging memory for CPU writes. Closing the region
// marks the bitmap dirty so the next draw re-uploads.
func (b *textureBitmap) Lock() (*surface.Region, error) {
	if b.closed {
		return nil, surface.ErrBitmapClosed
	}
	return surface.NewRegion(b.buf.Data(), b.buf.Stride(), func() {
		b.dirty = true
	}), nil
}

// Close destroys the GPU textures and releases the staging memory.
// Close is idempotent.
func (b *textureBitmap) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	destroy(b.oldTex)
	b.oldTex = nil
	destroy(b.tex)
	b.tex = nil
	b.swizzle = nil
	b.buf.Release()
	return nil
}

// flush uploads the staging pixels and returns the texture to draw.
// The texture is created on first use; afterwards UpdateData rewrites
// it in place. Textures that cannot be updated are recreated, with the
// old texture destroyed only after the replacing upload completed.
func (b *textureBitmap) flush(dc gpucontext.TextureDrawer) (gpucontext.Texture, error) {
	if !b.dirty && b.tex != nil {
		return b.tex, nil
	}

	data := b.uploadData()

	if b.tex != nil {
		if updater, ok := b.tex.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return nil, fmt.Errorf("gpupresent: texture update: %w", err)
			}
			b.dirty = false
			return b.tex, nil
		}
		// Not updatable in place. Defer destruction until after the
		// replacement upload: the GPU may still read this texture from
		// in-flight command buffers.
		destroy(b.oldTex)
		b.oldTex = b.tex
		b.tex = nil
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}
	created, err := creator.NewTextureFromRGBA(b.desc.Width, b.desc.Height, data)
	if err != nil {
		return nil, fmt.Errorf("gpupresent: create texture: %w", err)
	}
	tex, ok := created.(gpucontext.Texture)
	if !ok {
		return nil, ErrInvalidTexture
	}
	if pt, ok := created.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(b.desc.Format.Premultiplied())
	}

	// NewTextureFromRGBA waits for the GPU internally, so the deferred
	// texture's memory is no longer referenced.
	destroy(b.oldTex)
	b.oldTex = nil
	b.tex = tex
	b.dirty = false
	return tex, nil
}

// uploadData returns the staging pixels in the RGBA channel order the
// texture upload expects. BGRA staging formats are swizzled into a
// buffer that is allocated once and rewritten on every upload.
func (b *textureBitmap) uploadData() []byte {
	src := b.buf.Data()
	if !b.desc.Format.BlueFirst() {
		return src
	}
	if b.swizzle == nil {
		b.swizzle = make([]byte, len(src))
	}
	for i := 0; i+3 < len(src); i += 4 {
		b.swizzle[i] = src[i+2]
		b.swizzle[i+1] = src[i+1]
		b.swizzle[i+2] = src[i]
		b.swizzle[i+3] = src[i+3]
	}
	return b.swizzle
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
