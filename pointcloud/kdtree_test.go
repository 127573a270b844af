package pointcloud

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func makeLineCloud(t *testing.T, n int) PointCloud {
	t.Helper()
	cloud := New()
	for i := 0; i < n; i++ {
		test.That(t, cloud.Set(NewVector(float64(i), 0, 0), NewBasicData()), test.ShouldBeNil)
	}
	return cloud
}

func TestKDTreeNearest(t *testing.T) {
	kd := ToKDTree(makeLineCloud(t, 5))
	test.That(t, kd.Size(), test.ShouldEqual, 5)

	p, _, dist := kd.Nearest(NewVector(2.2, 0, 0))
	test.That(t, p, test.ShouldResemble, NewVector(2, 0, 0))
	test.That(t, dist, test.ShouldAlmostEqual, 0.2, 1e-9)

	p, _, dist = kd.Nearest(NewVector(0, 3, 4))
	test.That(t, p, test.ShouldResemble, NewVector(0, 0, 0))
	test.That(t, dist, test.ShouldAlmostEqual, 5, 1e-9)
}

func TestKDTreeRadiusSearch(t *testing.T) {
	kd := ToKDTree(makeLineCloud(t, 10))

	within := kd.RadiusSearch(NewVector(4, 0, 0), 1.5)
	test.That(t, len(within), test.ShouldEqual, 3)
	for _, pd := range within {
		test.That(t, math.Abs(pd.P.X-4), test.ShouldBeLessThanOrEqualTo, 1.5)
	}

	none := kd.RadiusSearch(NewVector(100, 0, 0), 1)
	test.That(t, len(none), test.ShouldEqual, 0)
}
