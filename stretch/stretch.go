// Package stretch provides the fitting math that maps a content size
// into an available box: scale-factor computation, measurement, and
// destination-rectangle placement.
//
// All functions are pure. A box dimension of zero means that axis is
// unconstrained.
package stretch

import (
	"image"
	"math"
)

// Stretch describes how content is resized to fill its allocated box.
type Stretch uint8

const (
	// None keeps the content at its natural size.
	None Stretch = iota

	// Fill resizes the content to fill the box, ignoring aspect ratio.
	Fill

	// Uniform resizes the content to fit inside the box while
	// preserving aspect ratio.
	Uniform

	// UniformToFill resizes the content to fill the box while
	// preserving aspect ratio; overflow on one axis is expected to be
	// clipped by the caller.
	UniformToFill
)

// String returns the stretch name.
func (s Stretch) String() string {
	switch s {
	case None:
		return "None"
	case Fill:
		return "Fill"
	case Uniform:
		return "Uniform"
	case UniformToFill:
		return "UniformToFill"
	default:
		return "Unknown"
	}
}

// Direction constrains which way the content may be scaled.
type Direction uint8

const (
	// Both allows scaling up and down.
	Both Direction = iota

	// UpOnly only allows scaling up; content is never shrunk.
	UpOnly

	// DownOnly only allows scaling down; content is never enlarged.
	DownOnly
)

// Scale returns the per-axis scale factors for fitting content into
// box. Content with a zero dimension and Stretch None both yield 1,1.
func Scale(s Stretch, dir Direction, box, content image.Point) (sx, sy float64) {
	sx, sy = 1, 1
	if s == None || content.X <= 0 || content.Y <= 0 {
		return sx, sy
	}

	constrainedX := box.X > 0
	constrainedY := box.Y > 0
	if !constrainedX && !constrainedY {
		return sx, sy
	}

	if constrainedX {
		sx = float64(box.X) / float64(content.X)
	}
	if constrainedY {
		sy = float64(box.Y) / float64(content.Y)
	}

	switch {
	case !constrainedX:
		sx = sy
	case !constrainedY:
		sy = sx
	default:
		switch s {
		case Uniform:
			m := math.Min(sx, sy)
			sx, sy = m, m
		case UniformToFill:
			m := math.Max(sx, sy)
			sx, sy = m, m
		}
	}

	switch dir {
	case UpOnly:
		sx = math.Max(sx, 1)
		sy = math.Max(sy, 1)
	case DownOnly:
		sx = math.Min(sx, 1)
		sy = math.Min(sy, 1)
	}
	return sx, sy
}

// MeasureSize returns the desired size of content stretched into box.
func MeasureSize(s Stretch, dir Direction, box, content image.Point) image.Point {
	sx, sy := Scale(s, dir, box, content)
	return image.Point{
		X: int(math.Round(float64(content.X) * sx)),
		Y: int(math.Round(float64(content.Y) * sy)),
	}
}

// DestRect returns the rectangle content occupies inside bounds after
// stretching, centered on both axes. With UniformToFill the returned
// rectangle may exceed bounds; callers clip against bounds when
// drawing.
func DestRect(s Stretch, dir Direction, bounds image.Rectangle, content image.Point) image.Rectangle {
	size := MeasureSize(s, dir, bounds.Size(), content)
	min := bounds.Min.Add(image.Point{
		X: (bounds.Dx() - size.X) / 2,
		Y: (bounds.Dy() - size.Y) / 2,
	})
	return image.Rectangle{Min: min, Max: min.Add(size)}
}
