package segmentation

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	pc "github.com/ateliercnc/graveur/pointcloud"
)

// ErrNoObject is returned when the filtered cloud is empty or no cluster
// reaches the minimum point count. The frame carries no usable object and
// callers skip it.
var ErrNoObject = errors.New("no object detected")

const (
	labelUnvisited = 0
	labelNoise     = -1
)

// DBSCANCluster partitions the cloud into density-based clusters: a point
// with at least minPoints neighbors within eps (itself included) is a core
// point, and clusters grow by expanding through core points. Points
// belonging to no cluster are labeled noise and dropped. Clusters come back
// in discovery order, which is the cloud's insertion order, so results are
// deterministic for a given input.
func DBSCANCluster(cloud pc.PointCloud, eps float64, minPoints int) ([]pc.PointCloud, error) {
	if eps <= 0 {
		return nil, errors.Errorf("clustering radius must be positive, got %v", eps)
	}
	if cloud.Size() == 0 {
		return nil, nil
	}

	points := make([]pc.PointAndData, 0, cloud.Size())
	index := make(map[r3.Vector]int, cloud.Size())
	cloud.Iterate(func(p r3.Vector, d pc.Data) bool {
		index[p] = len(points)
		points = append(points, pc.PointAndData{P: p, D: d})
		return true
	})
	kd := pc.ToKDTree(cloud)

	labels := make([]int, len(points))
	cluster := 0
	for i := range points {
		if labels[i] != labelUnvisited {
			continue
		}
		neighbors := kd.RadiusSearch(points[i].P, eps)
		if len(neighbors) < minPoints {
			labels[i] = labelNoise
			continue
		}
		cluster++
		labels[i] = cluster
		queue := make([]int, 0, len(neighbors))
		for _, n := range neighbors {
			queue = append(queue, index[n.P])
		}
		for qi := 0; qi < len(queue); qi++ {
			j := queue[qi]
			if labels[j] == labelNoise {
				// border point reachable from a core point
				labels[j] = cluster
			}
			if labels[j] != labelUnvisited {
				continue
			}
			labels[j] = cluster
			expansion := kd.RadiusSearch(points[j].P, eps)
			if len(expansion) >= minPoints {
				for _, n := range expansion {
					queue = append(queue, index[n.P])
				}
			}
		}
	}

	clusters := make([]pc.PointCloud, cluster)
	for c := range clusters {
		clusters[c] = pc.New()
	}
	for i, pd := range points {
		if labels[i] == labelNoise {
			continue
		}
		if err := clusters[labels[i]-1].Set(pd.P, pd.D); err != nil {
			return nil, err
		}
	}
	return clusters, nil
}

// LargestCluster returns the biggest density-based cluster of the cloud,
// the "observed object". Ties resolve to the earliest-discovered cluster.
func LargestCluster(cloud pc.PointCloud, eps float64, minPoints int) (pc.PointCloud, error) {
	clusters, err := DBSCANCluster(cloud, eps, minPoints)
	if err != nil {
		return nil, err
	}
	clusters = pc.PrunePointClouds(clusters, minPoints)
	if len(clusters) == 0 {
		return nil, ErrNoObject
	}
	largest := clusters[0]
	for _, c := range clusters[1:] {
		if c.Size() > largest.Size() {
			largest = c
		}
	}
	return largest, nil
}
