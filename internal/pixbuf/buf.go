package pixbuf

import "errors"

// Common errors for buffer construction.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("pixbuf: invalid format")

	// ErrInvalidStride is returned when stride is less than the minimum
	// required for the width.
	ErrInvalidStride = errors.New("pixbuf: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("pixbuf: data buffer too small")
)

// Buffer is a CPU pixel buffer with an explicit stride and format.
//
// Buffers are not safe for concurrent mutation; frame playback owns
// and mutates them from a single goroutine.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// New allocates a tightly packed buffer with the given dimensions and
// format.
func New(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &Buffer{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying. The caller must
// ensure data stays valid for the lifetime of the Buffer. Stride must
// be at least format.RowBytes(width); row padding beyond the width is
// permitted.
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}
	required := stride * height
	if len(data) < required {
		return nil, ErrDataTooSmall
	}

	return &Buffer{
		data:   data[:required],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the number of bytes per row, including padding.
func (b *Buffer) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *Buffer) Format() Format { return b.format }

// Data returns the raw pixel data slice.
func (b *Buffer) Data() []byte { return b.data }

// ByteSize returns the total size of the pixel data in bytes.
func (b *Buffer) ByteSize() int { return len(b.data) }

// RowBytes returns the pixel data for row y without padding.
// Returns nil if y is out of bounds.
func (b *Buffer) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{
		data:   data,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// CopyFrom performs a single bulk transfer of src's pixel memory into
// the receiver and returns the number of bytes copied.
//
// The transfer length is the minimum of the two byte lengths. When the
// buffers disagree — a host buffer with row-stride padding against a
// tightly packed source, or vice versa — the destination may be only
// partially filled, but out-of-bounds access can never occur.
func (b *Buffer) CopyFrom(src *Buffer) int {
	if src == nil {
		return 0
	}
	n := len(b.data)
	if len(src.data) < n {
		n = len(src.data)
	}
	return copy(b.data[:n], src.data[:n])
}

// Release drops the pixel data so the backing memory can be reclaimed.
// A released buffer has zero dimensions and a nil data slice; any
// further transfer against it copies zero bytes.
func (b *Buffer) Release() {
	b.data = nil
	b.width = 0
	b.height = 0
	b.stride = 0
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.data == nil
}
