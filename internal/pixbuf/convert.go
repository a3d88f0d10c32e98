package pixbuf

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FromImage converts src into a freshly allocated Buffer in the given
// format. The source image is read once and never retained, so one
// decoded image may feed many buffers.
//
// Premultiplication happens here, eagerly: converted frames are written
// once per source assignment and then only ever block-copied, so there
// is nothing to gain from deferring it.
func FromImage(src image.Image, format Format) (*Buffer, error) {
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	var pix []byte
	var stride int
	if format.Premultiplied() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Copy(dst, image.Point{}, src, bounds, xdraw.Src, nil)
		pix, stride = dst.Pix, dst.Stride
	} else {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.Copy(dst, image.Point{}, src, bounds, xdraw.Src, nil)
		pix, stride = dst.Pix, dst.Stride
	}

	if format.BlueFirst() {
		swapRedBlue(pix)
	}

	return FromRaw(pix, w, h, format, stride)
}

// ToImage exposes the buffer as a standard image sharing the same
// pixel memory. BGRA-ordered buffers are swizzled into a copy first;
// RGBA-ordered buffers are wrapped zero-copy.
func (b *Buffer) ToImage() image.Image {
	pix := b.data
	if b.format.BlueFirst() {
		pix = make([]byte, len(b.data))
		copy(pix, b.data)
		swapRedBlue(pix)
	}
	rect := image.Rect(0, 0, b.width, b.height)
	if b.format.Premultiplied() {
		return &image.RGBA{Pix: pix, Stride: b.stride, Rect: rect}
	}
	return &image.NRGBA{Pix: pix, Stride: b.stride, Rect: rect}
}

// swapRedBlue exchanges the first and third byte of every pixel,
// converting between RGBA and BGRA channel order in place.
func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
