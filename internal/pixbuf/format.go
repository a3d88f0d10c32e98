// Package pixbuf provides the CPU pixel buffers behind frame playback:
// the format-normalized copies of a source's frames and the
// presentation buffer handed to the host compositor.
//
// All formats are 4 bytes per pixel; a compositor that wants a
// different channel order or alpha convention picks the matching
// Format and buffers are converted once, at source assignment.
package pixbuf

// Format identifies the channel order and alpha convention of a
// 4-byte pixel.
type Format uint8

const (
	// RGBA8 is 32-bit RGBA with straight (non-premultiplied) alpha.
	RGBA8 Format = iota

	// RGBAPremul is 32-bit RGBA with premultiplied alpha.
	RGBAPremul

	// BGRA8 is 32-bit BGRA with straight alpha. Common on Windows
	// compositors and some GPU surface formats.
	BGRA8

	// BGRAPremul is 32-bit BGRA with premultiplied alpha.
	BGRAPremul

	formatCount
)

// BytesPerPixel returns the pixel size in bytes. All supported formats
// are 4 bytes per pixel.
func (f Format) BytesPerPixel() int { return 4 }

// RowBytes returns the minimum number of bytes for a tightly packed
// row of width pixels.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// Premultiplied reports whether the format carries premultiplied alpha.
func (f Format) Premultiplied() bool {
	return f == RGBAPremul || f == BGRAPremul
}

// BlueFirst reports whether the format stores the blue channel in the
// first byte of each pixel.
func (f Format) BlueFirst() bool {
	return f == BGRA8 || f == BGRAPremul
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case RGBA8:
		return "RGBA8"
	case RGBAPremul:
		return "RGBAPremul"
	case BGRA8:
		return "BGRA8"
	case BGRAPremul:
		return "BGRAPremul"
	default:
		return "Invalid"
	}
}
