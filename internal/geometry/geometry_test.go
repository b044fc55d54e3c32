package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	b := Expand(Box{X: 10, Y: 10, W: 100, H: 50}, 5)
	assert.Equal(t, Box{X: 5, Y: 5, W: 110, H: 60}, b)
}

func TestOverlapWithGapTouchingIsNotOverlap(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 100, H: 100}
	b := Box{X: 115, Y: 0, W: 100, H: 100} // exactly 15mm clearance away
	assert.False(t, OverlapWithGap(a, b, 15))
}

func TestOverlapWithGapOverlapping(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 100, H: 100}
	b := Box{X: 110, Y: 0, W: 100, H: 100} // only 10mm away, gap requires 15
	assert.True(t, OverlapWithGap(a, b, 15))
}

func TestFitsInAutoclave(t *testing.T) {
	assert.True(t, FitsInAutoclave(Box{X: 20, Y: 20, W: 1960, H: 1460}, 2000, 1500, 20))
	assert.False(t, FitsInAutoclave(Box{X: 19, Y: 20, W: 1960, H: 1460}, 2000, 1500, 20))
	assert.False(t, FitsInAutoclave(Box{X: 20, Y: 20, W: 1961, H: 1460}, 2000, 1500, 20))
}

func TestRotatedDims(t *testing.T) {
	w, h := RotatedDims(600, 400, false)
	assert.Equal(t, 600.0, w)
	assert.Equal(t, 400.0, h)

	w, h = RotatedDims(600, 400, true)
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 600.0, h)
}
