package alignment

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/spatialmath"
)

func unitSquare() pc.PointCloud {
	return pc.CloudFromVectors([]r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	})
}

func TestAlignRecoversPlanarPose(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := DefaultConfig()
	// corner residual at the nearest sampled angle is ~0.012
	cfg.FitTolerance = 0.05

	model := unitSquare()
	object := pc.Translated(model, r3.Vector{X: 1})
	objectCentroid := pc.CalculateMeanOfPointCloud(object)
	object = pc.Rotated(object, spatialmath.RZ(10), objectCentroid)

	aligner, err := NewAligner(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	res, err := aligner.Align(model, object)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res.ObjectCentroid.X, test.ShouldAlmostEqual, 1.5, 1e-9)
	test.That(t, res.ObjectCentroid.Y, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, res.ObjectCentroid.Z, test.ShouldAlmostEqual, 0, 1e-9)

	// the object never left the plane
	test.That(t, res.Y.Angle, test.ShouldEqual, 0)
	test.That(t, res.X.Angle, test.ShouldEqual, 0)

	// the 10 degree spin lands within one angle step; the square's
	// four-fold symmetry makes later equivalent angles lose the tie
	test.That(t, math.Abs(res.Z.Angle-10), test.ShouldBeLessThanOrEqualTo, cfg.AngleStep)
	test.That(t, res.Z.FitPercent, test.ShouldEqual, 100.0)

	// combined rotation agrees with the per-axis winners
	expected := res.X.Rotation.Mul(res.Y.Rotation).Mul(res.Z.Rotation)
	test.That(t, spatialmath.RotationMatrixAlmostEqual(res.Rotation, expected, 1e-9), test.ShouldBeTrue)
}

func TestAlignIdenticalClouds(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := DefaultConfig()
	cfg.ZRange = SearchRange{Start: 0, Stop: 90}

	square := unitSquare()
	aligner, err := NewAligner(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	res, err := aligner.Align(square, square)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res.Y.Angle, test.ShouldEqual, 0)
	test.That(t, res.X.Angle, test.ShouldEqual, 0)
	test.That(t, res.Z.Angle, test.ShouldEqual, 0)
	test.That(t, res.Z.MeanDistance, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, spatialmath.RotationMatrixAlmostEqual(res.Rotation, spatialmath.NewZeroRotation(), 1e-9), test.ShouldBeTrue)
}

func TestAlignEmptyObject(t *testing.T) {
	logger := golog.NewTestLogger(t)
	aligner, err := NewAligner(DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)
	_, err = aligner.Align(unitSquare(), pc.New())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewAlignerInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AngleStep = 0
	_, err := NewAligner(cfg, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}
