package camera

import (
	"image/color"

	"github.com/ateliercnc/graveur/pointcloud"
)

// PointCloud back-projects the frame into a colored point cloud in the
// camera frame. Depth readings outside the (minDepth, maxDepth) window, in
// millimeters, are treated as invalid and dropped; remaining depths are
// divided by depthScale to convert to the cloud's metric units.
func (f *Frame) PointCloud(minDepth, maxDepth Depth, depthScale float64) (pointcloud.PointCloud, error) {
	if err := f.CheckValid(); err != nil {
		return nil, err
	}
	width, height := f.Depth.Width(), f.Depth.Height()
	pc := pointcloud.NewWithPrealloc(width * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := f.Depth.GetDepth(x, y)
			if d <= minDepth || d >= maxDepth {
				continue
			}
			px, py, pz := f.Intrinsics.PixelToPoint(float64(x), float64(y), float64(d)/depthScale)
			c := f.Color.NRGBAAt(x+f.Color.Rect.Min.X, y+f.Color.Rect.Min.Y)
			err := pc.Set(
				pointcloud.NewVector(px, py, pz),
				pointcloud.NewColoredData(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}),
			)
			if err != nil {
				return nil, err
			}
		}
	}
	return pc, nil
}
