package pointcloud

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/ateliercnc/graveur/spatialmath"
)

func TestCalculateMean(t *testing.T) {
	cloud := CloudFromVectors([]r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1},
	})
	test.That(t, CalculateMeanOfPointCloud(cloud), test.ShouldResemble, r3.Vector{X: 0, Y: 0.5, Z: 0.5})
	test.That(t, CalculateMeanOfPointCloud(New()), test.ShouldResemble, r3.Vector{})
}

func TestTranslated(t *testing.T) {
	cloud := CloudFromVectors([]r3.Vector{{X: 1, Y: 2, Z: 3}})
	moved := Translated(cloud, r3.Vector{X: -1, Y: -2, Z: -3})
	test.That(t, VectorsFromCloud(moved), test.ShouldResemble, []r3.Vector{{X: 0, Y: 0, Z: 0}})
	// source is untouched
	test.That(t, VectorsFromCloud(cloud), test.ShouldResemble, []r3.Vector{{X: 1, Y: 2, Z: 3}})
}

func TestRotatedAboutPivot(t *testing.T) {
	cloud := CloudFromVectors([]r3.Vector{{X: 2, Y: 1, Z: 0}})
	rotated := Rotated(cloud, spatialmath.RZ(90), r3.Vector{X: 1, Y: 1})
	points := VectorsFromCloud(rotated)
	test.That(t, spatialmath.R3VectorAlmostEqual(points[0], r3.Vector{X: 1, Y: 2}, 1e-9), test.ShouldBeTrue)
}

func TestTransformed(t *testing.T) {
	cloud := CloudFromVectors([]r3.Vector{{X: 1, Y: 0, Z: 0}})
	// rotate 90 about Z, then lift by a unit in Z
	tf := spatialmath.NewTransform(spatialmath.RZ(90), r3.Vector{Z: 1})
	moved := Transformed(cloud, tf)
	points := VectorsFromCloud(moved)
	test.That(t, spatialmath.R3VectorAlmostEqual(points[0], r3.Vector{Y: 1, Z: 1}, 1e-9), test.ShouldBeTrue)
}

func TestBottomSlab(t *testing.T) {
	cloud := CloudFromVectors([]r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0.00005}, {X: 0, Y: 1, Z: 0.5}, {X: 1, Y: 1, Z: 1},
	})
	slab := BottomSlab(cloud, 0.0001)
	test.That(t, slab.Size(), test.ShouldEqual, 2)
}

func TestPrune(t *testing.T) {
	clouds := []PointCloud{
		CloudFromVectors([]r3.Vector{{X: 0, Y: 0, Z: 0}}),
		CloudFromVectors([]r3.Vector{{X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}),
	}
	pruned := PrunePointClouds(clouds, 2)
	test.That(t, len(pruned), test.ShouldEqual, 1)
	test.That(t, pruned[0].Size(), test.ShouldEqual, 2)
}
