package alignment

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/spatialmath"
)

// Alignment is the result of fitting the model cloud onto the observed
// object cloud.
type Alignment struct {
	// ObjectCentroid is the centroid of the observed object, the
	// translation the model was moved onto before the rotation search.
	ObjectCentroid r3.Vector
	// Rotation is the combined best-fit rotation R_X * R_Y * R_Z.
	Rotation *spatialmath.RotationMatrix
	// Y, X, Z are the per-axis sweep results, in search order.
	Y, X, Z SearchResult
}

// Aligner runs the per-axis rotation search against a configured set of
// ranges.
type Aligner struct {
	cfg    Config
	logger golog.Logger
}

// NewAligner validates the config and returns an Aligner.
func NewAligner(cfg Config, logger golog.Logger) (*Aligner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aligner{cfg: cfg, logger: logger}, nil
}

// Align translates the model onto the object's centroid, voxel-downsamples
// both clouds, and searches the Y, X, and Z axes in that order. Each axis
// search operates on the model as rotated by the prior axes; the order is
// part of the procedure's contract, not an optimization choice.
func (a *Aligner) Align(model, object pc.PointCloud) (*Alignment, error) {
	objectCentroid := pc.CalculateMeanOfPointCloud(object)
	modelCentroid := pc.CalculateMeanOfPointCloud(model)
	working := pc.Translated(model, objectCentroid.Sub(modelCentroid))

	working, err := pc.VoxelDownsample(working, a.cfg.VoxelSize)
	if err != nil {
		return nil, err
	}
	target, err := pc.VoxelDownsample(object, a.cfg.VoxelSize)
	if err != nil {
		return nil, err
	}

	working, resY, err := SearchRotation(working, target, AxisY, a.cfg.YRange, a.cfg.AngleStep, a.cfg.FitTolerance)
	if err != nil {
		return nil, err
	}
	a.logSweep(AxisY, resY)
	working, resX, err := SearchRotation(working, target, AxisX, a.cfg.XRange, a.cfg.AngleStep, a.cfg.FitTolerance)
	if err != nil {
		return nil, err
	}
	a.logSweep(AxisX, resX)
	_, resZ, err := SearchRotation(working, target, AxisZ, a.cfg.ZRange, a.cfg.AngleStep, a.cfg.FitTolerance)
	if err != nil {
		return nil, err
	}
	a.logSweep(AxisZ, resZ)

	return &Alignment{
		ObjectCentroid: objectCentroid,
		Rotation:       resX.Rotation.Mul(resY.Rotation).Mul(resZ.Rotation),
		Y:              resY,
		X:              resX,
		Z:              resZ,
	}, nil
}

func (a *Aligner) logSweep(axis Axis, res SearchResult) {
	a.logger.Debugw("axis sweep complete",
		"axis", axis.String(),
		"best_angle_deg", res.Angle,
		"mean_distance", res.MeanDistance,
		"fit_percent", res.FitPercent,
	)
}
