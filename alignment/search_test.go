package alignment

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/spatialmath"
)

// asymmetricCloud has no rotational symmetry about any axis, so sweep
// minima are unique.
func asymmetricCloud(t *testing.T) pc.PointCloud {
	t.Helper()
	return pc.CloudFromVectors([]r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 3, Y: 1, Z: 0},
	})
}

func TestSearchRotationIdentity(t *testing.T) {
	cloud := asymmetricCloud(t)
	rotated, res, err := SearchRotation(cloud, cloud, AxisZ, SearchRange{Start: 0, Stop: 1}, 1, 0.01)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Angle, test.ShouldEqual, 0)
	test.That(t, res.MeanDistance, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, res.FitPercent, test.ShouldEqual, 100.0)
	test.That(t, rotated.Size(), test.ShouldEqual, cloud.Size())
}

func TestSearchRotationRecoversAngle(t *testing.T) {
	model := asymmetricCloud(t)
	pivot := pc.CalculateMeanOfPointCloud(model)
	object := pc.Rotated(model, spatialmath.RZ(10), pivot)

	_, res, err := SearchRotation(model, object, AxisZ, SearchRange{Start: 0, Stop: 21}, 1, 0.05)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Angle, test.ShouldAlmostEqual, 10, 1e-9)
	test.That(t, res.MeanDistance, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, res.FitPercent, test.ShouldEqual, 100.0)
}

func TestSearchRotationTieBreak(t *testing.T) {
	// a single point is invariant under every rotation; every angle ties
	// and the first one in scan order wins
	single := pc.CloudFromVectors([]r3.Vector{{X: 1, Y: 2, Z: 3}})
	_, res, err := SearchRotation(single, single, AxisY, SearchRange{Start: 5, Stop: 20}, 3, 0.01)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Angle, test.ShouldEqual, 5)
	test.That(t, res.MeanDistance, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestSearchRotationDegenerate(t *testing.T) {
	cloud := asymmetricCloud(t)
	empty := pc.New()

	_, _, err := SearchRotation(empty, cloud, AxisZ, SearchRange{Start: 0, Stop: 10}, 1, 0.01)
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = SearchRotation(cloud, empty, AxisZ, SearchRange{Start: 0, Stop: 10}, 1, 0.01)
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = SearchRotation(cloud, cloud, AxisZ, SearchRange{Start: 0, Stop: 10}, 0, 0.01)
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = SearchRotation(cloud, cloud, AxisZ, SearchRange{Start: 10, Stop: 10}, 1, 0.01)
	test.That(t, err, test.ShouldNotBeNil)
}
