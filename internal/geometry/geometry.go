// Package geometry is the pure, stateless rectangle kernel shared by the
// placement solver: box inflation, clearance-aware overlap, containment
// with a border margin, and rotation. All arithmetic is float64 millimetres;
// border and clearance are applied before any output rounding, matching
// spec.md §4.1.
package geometry

// Box is an axis-aligned rectangle, lower-left corner at (X, Y).
type Box struct {
	X, Y, W, H float64
}

// Right returns the box's right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Top returns the box's top edge.
func (b Box) Top() float64 { return b.Y + b.H }

// Expand inflates a box by gap on all four sides.
func Expand(b Box, gap float64) Box {
	return Box{
		X: b.X - gap,
		Y: b.Y - gap,
		W: b.W + 2*gap,
		H: b.H + 2*gap,
	}
}

// OverlapWithGap reports whether a and expand(b, gap) share interior points.
// Touching boundaries — including two boxes separated by exactly gap — are
// not considered overlapping.
func OverlapWithGap(a, b Box, gap float64) bool {
	eb := Expand(b, gap)
	return a.X < eb.Right() && a.Right() > eb.X &&
		a.Y < eb.Top() && a.Top() > eb.Y
}

// FitsInAutoclave reports whether box lies fully within a width x height
// autoclave, respecting a border margin on all sides (invariant I1).
func FitsInAutoclave(b Box, autoclaveW, autoclaveH, border float64) bool {
	return b.X >= border &&
		b.Y >= border &&
		b.Right() <= autoclaveW-border &&
		b.Top() <= autoclaveH-border
}

// RotatedDims returns (w, h) unchanged when rotated is false, and (h, w)
// when rotated is true.
func RotatedDims(w, h float64, rotated bool) (float64, float64) {
	if rotated {
		return h, w
	}
	return w, h
}
