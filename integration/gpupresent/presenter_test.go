// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpupresent

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/imageview/surface"
)

// mockProvider implements gpucontext.DeviceProvider for testing. The
// device, queue, and adapter accessors return zero values; the
// presenter only consults the surface format.
type mockProvider struct {
	format gputypes.TextureFormat
}

func newMockProvider(format gputypes.TextureFormat) *mockProvider {
	return &mockProvider{format: format}
}

func (m *mockProvider) Device() gpucontext.Device {
	var d gpucontext.Device
	return d
}

func (m *mockProvider) Queue() gpucontext.Queue {
	var q gpucontext.Queue
	return q
}

func (m *mockProvider) Adapter() gpucontext.Adapter {
	var a gpucontext.Adapter
	return a
}

func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	var info gpucontext.AdapterInfo
	return info
}

func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

// mockTexture implements the texture update and destroy interfaces.
type mockTexture struct {
	width     int
	height    int
	data      []byte
	premul    bool
	updated   int
	destroyed bool
}

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.updated++
	return nil
}

func (m *mockTexture) SetPremultiplied(p bool) { m.premul = p }
func (m *mockTexture) Destroy()                { m.destroyed = true }
func (m *mockTexture) Width() int              { return m.width }
func (m *mockTexture) Height() int             { return m.height }

// mockRenderer implements gpucontext.TextureCreator for testing.
type mockRenderer struct {
	textures []*mockTexture
	failNext bool
}

func (m *mockRenderer) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{
		width:  width,
		height: height,
		data:   make([]byte, len(data)),
	}
	copy(tex.data, data)
	m.textures = append(m.textures, tex)
	return tex, nil
}

// mockDrawContext implements gpucontext.TextureDrawer for testing.
type mockDrawContext struct {
	renderer     *mockRenderer
	drawnTexture gpucontext.Texture
	drawnX       float32
	drawnY       float32
	drawCount    int
}

func (m *mockDrawContext) TextureCreator() gpucontext.TextureCreator {
	if m.renderer == nil {
		return nil
	}
	return m.renderer
}

func (m *mockDrawContext) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawnTexture = tex
	m.drawnX = x
	m.drawnY = y
	m.drawCount++
	return nil
}

func newTestPresenter(t *testing.T) (*Presenter, *mockDrawContext) {
	t.Helper()
	p, err := New(newMockProvider(gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	dc := &mockDrawContext{renderer: &mockRenderer{}}
	p.SetTarget(dc)
	return p, dc
}

func TestNewNilProvider(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilProvider) {
		t.Errorf("New(nil) error = %v, want ErrNilProvider", err)
	}
}

func TestPreferredFormat(t *testing.T) {
	p, _ := newTestPresenter(t)
	defer p.Close()
	if got := p.PreferredFormat(); got != surface.FormatBGRAPremul {
		t.Errorf("PreferredFormat() for BGRA surface = %v, want FormatBGRAPremul", got)
	}

	rgba, err := New(newMockProvider(gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer rgba.Close()
	if got := rgba.PreferredFormat(); got != surface.FormatRGBAPremul {
		t.Errorf("PreferredFormat() for RGBA surface = %v, want FormatRGBAPremul", got)
	}
}

func TestDrawCreatesTextureLazily(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 8, Height: 8, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	if len(dc.renderer.textures) != 0 {
		t.Fatalf("texture created before first draw")
	}

	rect := image.Rect(0, 0, 8, 8)
	p.Draw(bmp, rect, rect.Add(image.Pt(10, 20)), surface.BlendSourceOver)
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(dc.renderer.textures) != 1 {
		t.Fatalf("textures created = %d, want 1", len(dc.renderer.textures))
	}
	if dc.drawCount != 1 {
		t.Errorf("DrawTexture called %d times, want 1", dc.drawCount)
	}
	if dc.drawnX != 10 || dc.drawnY != 20 {
		t.Errorf("drawn position = (%f, %f), want (10, 20)", dc.drawnX, dc.drawnY)
	}
	if !dc.renderer.textures[0].premul {
		t.Error("premultiplied flag not set on created texture")
	}
}

func TestDrawSkipsUploadWhenClean(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)

	tex := dc.renderer.textures[0]
	if tex.updated != 0 {
		t.Errorf("clean redraw updated texture %d times, want 0", tex.updated)
	}
	if dc.drawCount != 2 {
		t.Errorf("DrawTexture called %d times, want 2", dc.drawCount)
	}

	// A write through Lock marks the bitmap dirty; the next draw
	// updates the existing texture in place.
	region, err := bmp.Lock()
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	region.Data[0] = 0xff
	region.Close()

	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if tex.updated != 1 {
		t.Errorf("dirty redraw updated texture %d times, want 1", tex.updated)
	}
	if len(dc.renderer.textures) != 1 {
		t.Errorf("dirty redraw created a new texture")
	}
	if tex.data[0] != 0xff {
		t.Errorf("updated texture data[0] = %#x, want 0xff", tex.data[0])
	}
}

func TestDrawSwizzlesBGRAStaging(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 1, Height: 1, Format: surface.FormatBGRAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	region, err := bmp.Lock()
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	// BGRA: blue=10, green=20, red=30, alpha=255.
	copy(region.Data, []byte{10, 20, 30, 255})
	region.Close()

	rect := image.Rect(0, 0, 1, 1)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)

	got := dc.renderer.textures[0].data
	want := []byte{30, 20, 10, 255} // RGBA order for the upload
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("uploaded data = %v, want %v", got, want)
		}
	}
}

func TestSwizzleBufferReusedAcrossUploads(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 2, Height: 2, Format: surface.FormatBGRAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	tb := bmp.(*textureBitmap)
	rect := image.Rect(0, 0, 2, 2)

	writePixel := func(b byte) {
		region, err := bmp.Lock()
		if err != nil {
			t.Fatalf("Lock() error = %v", err)
		}
		region.Data[0] = b
		region.Data[3] = 255
		region.Close()
	}

	writePixel(1)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	first := tb.swizzle
	if first == nil {
		t.Fatal("swizzle buffer not allocated on first BGRA upload")
	}

	writePixel(2)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if &tb.swizzle[0] != &first[0] {
		t.Error("dirty re-upload allocated a new swizzle buffer")
	}

	// The reused buffer carries the fresh pixels: the blue byte
	// written at offset 0 lands at offset 2 of the RGBA upload.
	tex := dc.renderer.textures[0]
	if tex.data[2] != 2 {
		t.Errorf("texture blue byte = %d, want 2 after re-upload", tex.data[2])
	}
	if err := p.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func TestDrawWithoutTarget(t *testing.T) {
	p, err := New(newMockProvider(gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if err := p.Flush(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("Flush() error = %v, want ErrNoTarget", err)
	}
	// The error is consumed by the report.
	if err := p.Flush(); err != nil {
		t.Errorf("second Flush() error = %v, want nil", err)
	}
}

func TestDrawWithoutTextureCreator(t *testing.T) {
	p, err := New(newMockProvider(gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Close()
	p.SetTarget(&mockDrawContext{}) // no renderer behind the drawer

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if err := p.Flush(); !errors.Is(err, ErrInvalidRenderer) {
		t.Errorf("Flush() error = %v, want ErrInvalidRenderer", err)
	}
}

func TestDrawTextureCreationFailure(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	dc.renderer.failNext = true
	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if err := p.Flush(); err == nil {
		t.Error("Flush() after failed texture creation should report an error")
	}
	if dc.drawCount != 0 {
		t.Errorf("DrawTexture called %d times after failure, want 0", dc.drawCount)
	}

	// The bitmap stays dirty, so the next draw retries the upload.
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if len(dc.renderer.textures) != 1 {
		t.Errorf("retry created %d textures, want 1", len(dc.renderer.textures))
	}
	if dc.drawCount != 1 {
		t.Errorf("DrawTexture called %d times after retry, want 1", dc.drawCount)
	}
}

func TestBitmapClose(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}

	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)

	if err := bmp.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := bmp.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !dc.renderer.textures[0].destroyed {
		t.Error("texture not destroyed on bitmap close")
	}
	if _, err := bmp.Lock(); !errors.Is(err, surface.ErrBitmapClosed) {
		t.Errorf("Lock() on closed bitmap error = %v, want ErrBitmapClosed", err)
	}

	// Drawing a closed bitmap is ignored.
	draws := dc.drawCount
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if err := p.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
	if dc.drawCount != draws {
		t.Error("closed bitmap was drawn")
	}
}

func TestPresenterClose(t *testing.T) {
	p, dc := newTestPresenter(t)

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4}); !errors.Is(err, ErrPresenterClosed) {
		t.Errorf("NewBitmap() on closed presenter error = %v, want ErrPresenterClosed", err)
	}
	if err := p.Flush(); !errors.Is(err, ErrPresenterClosed) {
		t.Errorf("Flush() on closed presenter error = %v, want ErrPresenterClosed", err)
	}

	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendSourceOver)
	if dc.drawCount != 0 {
		t.Error("closed presenter drew a bitmap")
	}
}

func TestBlendClearIgnored(t *testing.T) {
	p, dc := newTestPresenter(t)
	defer p.Close()

	bmp, err := p.NewBitmap(surface.Descriptor{Width: 4, Height: 4, Format: surface.FormatRGBAPremul})
	if err != nil {
		t.Fatalf("NewBitmap() error = %v", err)
	}
	defer bmp.Close()

	rect := image.Rect(0, 0, 4, 4)
	p.Draw(bmp, rect, rect, surface.BlendClear)
	if dc.drawCount != 0 {
		t.Error("BlendClear should not draw")
	}
	if err := p.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}
