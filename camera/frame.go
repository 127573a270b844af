package camera

import (
	"image"

	"github.com/pkg/errors"
)

// ErrIncompleteFrame is returned when one or both halves of a synchronized
// depth+color pair are missing. Callers skip the iteration and move on.
var ErrIncompleteFrame = errors.New("incomplete frame: missing depth or color")

// Depth is the depth at a pixel, in millimeters. 0 marks an invalid reading.
type Depth uint16

// DepthMap is a frame-sized grid of depth readings.
type DepthMap struct {
	width  int
	height int
	data   []Depth
}

// NewEmptyDepthMap returns an unset depth map of the given dimensions.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{width: width, height: height, data: make([]Depth, width*height)}
}

// Width returns the width of the depth map.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the height of the depth map.
func (dm *DepthMap) Height() int {
	return dm.height
}

// GetDepth returns the depth at the given coordinates.
func (dm *DepthMap) GetDepth(x, y int) Depth {
	return dm.data[y*dm.width+x]
}

// Set sets the depth at the given coordinates.
func (dm *DepthMap) Set(x, y int, d Depth) {
	dm.data[y*dm.width+x] = d
}

// Frame is a synchronized depth+color capture with the intrinsics it was
// taken under. Depth is registered to the color image, so the two share
// pixel coordinates.
type Frame struct {
	Color      *image.NRGBA
	Depth      *DepthMap
	Intrinsics *Intrinsics
}

// CheckValid verifies the frame halves are present and dimensions agree.
func (f *Frame) CheckValid() error {
	if f == nil || f.Color == nil || f.Depth == nil {
		return ErrIncompleteFrame
	}
	if err := f.Intrinsics.CheckValid(); err != nil {
		return err
	}
	cb := f.Color.Bounds()
	if cb.Dx() != f.Depth.Width() || cb.Dy() != f.Depth.Height() {
		return errors.Errorf("depth map and color dimensions don't match Depth(%d,%d) != Color(%d,%d)",
			f.Depth.Width(), f.Depth.Height(), cb.Dx(), cb.Dy())
	}
	return nil
}
