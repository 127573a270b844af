package segmentation

import (
	"testing"

	"go.viam.com/test"

	pc "github.com/ateliercnc/graveur/pointcloud"
)

// twoBlobCloud builds a dense 4x4 grid near the origin, a 3x3 grid far away,
// and one isolated point in between. Grid spacing is 0.1, so eps 0.15 links
// grid neighbors but never bridges the blobs.
func twoBlobCloud(t *testing.T) pc.PointCloud {
	t.Helper()
	cloud := pc.New()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p := pc.NewVector(float64(i)*0.1, float64(j)*0.1, 0)
			test.That(t, cloud.Set(p, pc.NewBasicData()), test.ShouldBeNil)
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p := pc.NewVector(10+float64(i)*0.1, float64(j)*0.1, 0)
			test.That(t, cloud.Set(p, pc.NewBasicData()), test.ShouldBeNil)
		}
	}
	test.That(t, cloud.Set(pc.NewVector(5, 5, 5), pc.NewBasicData()), test.ShouldBeNil)
	return cloud
}

func TestDBSCANClusterSeparatesBlobs(t *testing.T) {
	cloud := twoBlobCloud(t)
	clusters, err := DBSCANCluster(cloud, 0.15, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(clusters), test.ShouldEqual, 2)
	test.That(t, clusters[0].Size(), test.ShouldEqual, 16)
	test.That(t, clusters[1].Size(), test.ShouldEqual, 9)
}

func TestDBSCANClusterDropsNoise(t *testing.T) {
	cloud := twoBlobCloud(t)
	clusters, err := DBSCANCluster(cloud, 0.15, 4)
	test.That(t, err, test.ShouldBeNil)
	total := 0
	for _, c := range clusters {
		total += c.Size()
	}
	// the isolated point is noise
	test.That(t, total, test.ShouldEqual, cloud.Size()-1)
}

func TestDBSCANClusterDeterministic(t *testing.T) {
	cloud := twoBlobCloud(t)
	first, err := DBSCANCluster(cloud, 0.15, 4)
	test.That(t, err, test.ShouldBeNil)
	second, err := DBSCANCluster(cloud, 0.15, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(second), test.ShouldEqual, len(first))
	for i := range first {
		test.That(t, pc.VectorsFromCloud(second[i]), test.ShouldResemble, pc.VectorsFromCloud(first[i]))
	}
}

func TestDBSCANClusterBadRadius(t *testing.T) {
	_, err := DBSCANCluster(pc.New(), 0, 4)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLargestCluster(t *testing.T) {
	cloud := twoBlobCloud(t)
	largest, err := LargestCluster(cloud, 0.15, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, largest.Size(), test.ShouldEqual, 16)
}

func TestLargestClusterNoObject(t *testing.T) {
	_, err := LargestCluster(pc.New(), 0.15, 4)
	test.That(t, err, test.ShouldEqual, ErrNoObject)

	sparse := pc.New()
	test.That(t, sparse.Set(pc.NewVector(0, 0, 0), pc.NewBasicData()), test.ShouldBeNil)
	test.That(t, sparse.Set(pc.NewVector(3, 0, 0), pc.NewBasicData()), test.ShouldBeNil)
	_, err = LargestCluster(sparse, 0.15, 4)
	test.That(t, err, test.ShouldEqual, ErrNoObject)
}
