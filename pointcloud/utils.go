package pointcloud

import (
	"github.com/golang/geo/r3"

	"github.com/ateliercnc/graveur/spatialmath"
)

// CalculateMeanOfPointCloud returns the spatial average center of a given
// point cloud.
func CalculateMeanOfPointCloud(cloud PointCloud) r3.Vector {
	if cloud.Size() == 0 {
		return r3.Vector{}
	}
	total := r3.Vector{}
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		total = total.Add(p)
		return true
	})
	return total.Mul(1.0 / float64(cloud.Size()))
}

// PrunePointClouds removes point clouds from a slice if the size of the
// cloud is less than nMin.
func PrunePointClouds(clouds []PointCloud, nMin int) []PointCloud {
	pruned := make([]PointCloud, 0, len(clouds))
	for _, cloud := range clouds {
		if cloud.Size() >= nMin {
			pruned = append(pruned, cloud)
		}
	}
	return pruned
}

// CloudFromVectors builds an uncolored cloud out of the given positions.
func CloudFromVectors(points []r3.Vector) PointCloud {
	cloud := NewWithPrealloc(len(points))
	for _, p := range points {
		utilSetIgnoringErr(cloud, p, NewBasicData())
	}
	return cloud
}

// VectorsFromCloud returns the positions of the cloud in insertion order.
func VectorsFromCloud(cloud PointCloud) []r3.Vector {
	points := make([]r3.Vector, 0, cloud.Size())
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		points = append(points, p)
		return true
	})
	return points
}

// Translated derives a new cloud with every point moved by the given offset.
func Translated(cloud PointCloud, offset r3.Vector) PointCloud {
	moved := NewWithPrealloc(cloud.Size())
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		utilSetIgnoringErr(moved, p.Add(offset), d)
		return true
	})
	return moved
}

// Rotated derives a new cloud with every point rotated about the pivot.
func Rotated(cloud PointCloud, rm *spatialmath.RotationMatrix, pivot r3.Vector) PointCloud {
	rotated := NewWithPrealloc(cloud.Size())
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		utilSetIgnoringErr(rotated, rm.Apply(p.Sub(pivot)).Add(pivot), d)
		return true
	})
	return rotated
}

// Transformed derives a new cloud with every point carried through the
// rigid transform.
func Transformed(cloud PointCloud, tf *spatialmath.Transform) PointCloud {
	moved := NewWithPrealloc(cloud.Size())
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		utilSetIgnoringErr(moved, tf.Apply(p), d)
		return true
	})
	return moved
}

// BottomSlab returns the points of the cloud within tol of its minimum Z
// coordinate.
func BottomSlab(cloud PointCloud, tol float64) PointCloud {
	minZ := cloud.MetaData().MinZ
	slab := New()
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		if p.Z-minZ <= tol {
			utilSetIgnoringErr(slab, p, d)
		}
		return true
	})
	return slab
}

// basicPointCloud.Set cannot fail; derived-cloud helpers rely on that.
func utilSetIgnoringErr(cloud PointCloud, p r3.Vector, d Data) {
	//nolint:errcheck
	_ = cloud.Set(p, d)
}
