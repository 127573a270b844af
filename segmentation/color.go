// Package segmentation isolates the observed object in a captured point
// cloud: a componentwise color window filter followed by density-based
// clustering, keeping only the largest cluster.
package segmentation

import (
	"image/color"

	"github.com/golang/geo/r3"

	pc "github.com/ateliercnc/graveur/pointcloud"
)

// ColorWindow is an asymmetric tolerance window around a target color.
// Tolerances are per channel, on the 0-255 scale.
type ColorWindow struct {
	Target      color.NRGBA
	PositiveTol color.NRGBA
	NegativeTol color.NRGBA
}

// Contains reports whether the given color lies within the window. Channels
// are normalized to 0-1 before comparison.
func (w *ColorWindow) Contains(r, g, b uint8) bool {
	lo := r3.Vector{
		X: (float64(w.Target.R) - float64(w.NegativeTol.R)) / 255.0,
		Y: (float64(w.Target.G) - float64(w.NegativeTol.G)) / 255.0,
		Z: (float64(w.Target.B) - float64(w.NegativeTol.B)) / 255.0,
	}
	hi := r3.Vector{
		X: (float64(w.Target.R) + float64(w.PositiveTol.R)) / 255.0,
		Y: (float64(w.Target.G) + float64(w.PositiveTol.G)) / 255.0,
		Z: (float64(w.Target.B) + float64(w.PositiveTol.B)) / 255.0,
	}
	c := r3.Vector{X: float64(r) / 255.0, Y: float64(g) / 255.0, Z: float64(b) / 255.0}
	return c.X >= lo.X && c.X <= hi.X &&
		c.Y >= lo.Y && c.Y <= hi.Y &&
		c.Z >= lo.Z && c.Z <= hi.Z
}

// FilterByColor returns the subset of the cloud whose colors lie within the
// window. Uncolored points never match. Filtering is idempotent: running
// the same window over its own output returns an equal cloud.
func FilterByColor(cloud pc.PointCloud, window *ColorWindow) pc.PointCloud {
	filtered := pc.New()
	cloud.Iterate(func(p r3.Vector, d pc.Data) bool {
		if d == nil || !d.HasColor() {
			return true
		}
		r, g, b := d.RGB255()
		if window.Contains(r, g, b) {
			//nolint:errcheck
			_ = filtered.Set(p, d)
		}
		return true
	})
	return filtered
}
