package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdValue adapts a cloud point to the gonum kd-tree interfaces.
type kdValue struct {
	pos r3.Vector
	d   Data
}

// Compare returns the signed distance between the two values along the
// given dimension.
func (v kdValue) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdValue)
	switch d {
	case 0:
		return v.pos.X - q.pos.X
	case 1:
		return v.pos.Y - q.pos.Y
	default:
		return v.pos.Z - q.pos.Z
	}
}

func (v kdValue) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, per the gonum contract.
func (v kdValue) Distance(c kdtree.Comparable) float64 {
	q := c.(kdValue)
	return v.pos.Sub(q.pos).Norm2()
}

type kdValues []kdValue

func (vs kdValues) Index(i int) kdtree.Comparable { return vs[i] }

func (vs kdValues) Len() int { return len(vs) }

func (vs kdValues) Slice(start, end int) kdtree.Interface { return vs[start:end] }

func (vs kdValues) Pivot(d kdtree.Dim) int {
	return kdPlane{dim: d, values: vs}.Pivot()
}

type kdPlane struct {
	dim    kdtree.Dim
	values kdValues
}

func (p kdPlane) Len() int { return len(p.values) }

func (p kdPlane) Less(i, j int) bool {
	return p.values[i].Compare(p.values[j], p.dim) < 0
}

func (p kdPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.values = p.values[start:end]
	return p
}

func (p kdPlane) Swap(i, j int) {
	p.values[i], p.values[j] = p.values[j], p.values[i]
}

// KDTree is a spatial index over a point cloud for nearest-neighbor and
// radius queries. The index is built once; the underlying cloud must not
// change afterwards.
type KDTree struct {
	cloud PointCloud
	tree  *kdtree.Tree
}

// ToKDTree creates a KDTree from an input PointCloud.
func ToKDTree(cloud PointCloud) *KDTree {
	vs := make(kdValues, 0, cloud.Size())
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		vs = append(vs, kdValue{pos: p, d: d})
		return true
	})
	return &KDTree{cloud: cloud, tree: kdtree.New(vs, false)}
}

// Size returns the number of points in the indexed cloud.
func (kd *KDTree) Size() int {
	return kd.cloud.Size()
}

// Nearest returns the indexed point nearest to p, with its data and the
// Euclidean distance between the two.
func (kd *KDTree) Nearest(p r3.Vector) (r3.Vector, Data, float64) {
	c, dist := kd.tree.Nearest(kdValue{pos: p})
	if c == nil {
		return r3.Vector{}, nil, math.Inf(1)
	}
	v := c.(kdValue)
	return v.pos, v.d, math.Sqrt(dist)
}

// RadiusSearch returns all indexed points within radius of p. A point
// exactly at p is included if present in the cloud.
func (kd *KDTree) RadiusSearch(p r3.Vector, radius float64) []PointAndData {
	keep := kdtree.NewDistKeeper(radius * radius)
	kd.tree.NearestSet(keep, kdValue{pos: p})
	out := make([]PointAndData, 0, keep.Heap.Len())
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		v := cd.Comparable.(kdValue)
		out = append(out, PointAndData{P: v.pos, D: v.d})
	}
	return out
}
