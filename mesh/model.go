package mesh

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/spatialmath"
)

// ModelConfig describes how the reference model is prepared.
type ModelConfig struct {
	// Path of the PLY mesh file.
	Path string `json:"path"`
	// SampleCount of points to draw from the surface.
	SampleCount int `json:"sample_count"`
	// Scale applied about the mesh center before sampling; the workcell's
	// meshes are in millimeters, clouds in meters.
	Scale float64 `json:"scale"`
	// BottomTol keeps only sampled points within this distance of the
	// minimum Z coordinate, isolating the face the object rests on.
	BottomTol float64 `json:"bottom_tolerance"`
}

// DefaultModelConfig returns the standard model preparation parameters.
func DefaultModelConfig(path string) ModelConfig {
	return ModelConfig{
		Path:        path,
		SampleCount: 5000,
		Scale:       0.001,
		BottomTol:   0.0001,
	}
}

// PrepareModel loads the mesh and produces the reference point set the
// aligner searches against: sampled, reduced to the bottom face, and spun
// 180 degrees about Z around its centroid to match the camera's view of
// the resting object.
func PrepareModel(cfg ModelConfig, logger golog.Logger) (pc.PointCloud, error) {
	m, err := Load(cfg.Path)
	if err != nil {
		return nil, err
	}
	logger.Debugw("mesh loaded", "path", cfg.Path, "vertices", m.VertexCount(), "faces", m.TriangleCount())

	if cfg.Scale > 0 && cfg.Scale != 1 {
		m = m.Scale(cfg.Scale)
	}
	points, err := SamplePoints(m, cfg.SampleCount)
	if err != nil {
		return nil, err
	}

	cloud := pc.BottomSlab(pc.CloudFromVectors(points), cfg.BottomTol)
	if cloud.Size() == 0 {
		return nil, errors.New("no model points within bottom-face tolerance")
	}

	pivot := pc.CalculateMeanOfPointCloud(cloud)
	cloud = pc.Rotated(cloud, spatialmath.RZ(180), pivot)
	logger.Debugw("model prepared", "points", cloud.Size())
	return cloud, nil
}
