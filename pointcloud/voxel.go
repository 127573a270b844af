package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// VoxelCoords stores voxel coordinates in voxel grid axes.
type VoxelCoords struct {
	I, J, K int64
}

// GetVoxelCoordinates computes the voxel coordinates of a point in a grid
// anchored at ptMin with cells of size voxelSize.
func GetVoxelCoordinates(pt, ptMin r3.Vector, voxelSize float64) VoxelCoords {
	return VoxelCoords{
		I: int64((pt.X - ptMin.X) / voxelSize),
		J: int64((pt.Y - ptMin.Y) / voxelSize),
		K: int64((pt.Z - ptMin.Z) / voxelSize),
	}
}

// VoxelDownsample reduces the density of a cloud by snapping points to a
// grid of the given voxel size and keeping one representative per occupied
// cell: the centroid of the cell members, carrying the data of the first
// member. Cell order follows the first insertion into each cell, so the
// result is deterministic for a given input cloud.
func VoxelDownsample(cloud PointCloud, voxelSize float64) (PointCloud, error) {
	if voxelSize <= 0 {
		return nil, errors.Errorf("voxel size must be positive, got %v", voxelSize)
	}
	if cloud.Size() == 0 {
		return New(), nil
	}
	meta := cloud.MetaData()
	ptMin := r3.Vector{X: meta.MinX, Y: meta.MinY, Z: meta.MinZ}

	type cell struct {
		sum r3.Vector
		n   int
		d   Data
	}
	order := make([]VoxelCoords, 0, cloud.Size())
	cells := make(map[VoxelCoords]*cell, cloud.Size())
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		coords := GetVoxelCoordinates(p, ptMin, voxelSize)
		c, ok := cells[coords]
		if !ok {
			c = &cell{d: d}
			cells[coords] = c
			order = append(order, coords)
		}
		c.sum = c.sum.Add(p)
		c.n++
		return true
	})

	downsampled := NewWithPrealloc(len(order))
	for _, coords := range order {
		c := cells[coords]
		rep := c.sum.Mul(1.0 / float64(c.n))
		if err := downsampled.Set(rep, c.d); err != nil {
			return nil, err
		}
	}
	return downsampled, nil
}
