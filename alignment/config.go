// Package alignment implements the pose estimation core: a per-axis
// brute-force rotation search aligning a sampled model cloud to the
// observed object cloud, and the composition of the result into a world
// pose.
package alignment

import (
	"encoding/json"
	"image/color"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/ateliercnc/graveur/camera"
)

// SearchRange is a half-open sweep range [Start, Stop) in degrees.
type SearchRange struct {
	Start float64 `json:"start_deg"`
	Stop  float64 `json:"stop_deg"`
}

// Config collects every tunable of the pipeline in one immutable value.
// The defaults are the workcell's calibrated constants; override before
// constructing the pipeline, not after.
type Config struct {
	// Depth clipping window, millimeters, exclusive bounds.
	MinDepth camera.Depth `json:"min_depth_mm"`
	MaxDepth camera.Depth `json:"max_depth_mm"`
	// DepthScale divides raw depth into the cloud's metric units.
	DepthScale float64 `json:"depth_scale"`

	// Color window isolating the object.
	TargetColor color.NRGBA `json:"target_color"`
	PositiveTol color.NRGBA `json:"positive_tolerance"`
	NegativeTol color.NRGBA `json:"negative_tolerance"`

	// Clustering parameters.
	ClusterRadius    float64 `json:"cluster_radius"`
	ClusterMinPoints int     `json:"cluster_min_points"`

	// VoxelSize for downsampling both clouds before the rotation search.
	VoxelSize float64 `json:"voxel_size"`

	// Rotation search: step and per-axis ranges, searched in Y, X, Z order.
	AngleStep    float64     `json:"angle_step_deg"`
	YRange       SearchRange `json:"y_range"`
	XRange       SearchRange `json:"x_range"`
	ZRange       SearchRange `json:"z_range"`
	FitTolerance float64     `json:"fit_tolerance"`

	// Camera extrinsics: fixed position and scalar-first orientation
	// quaternion of the camera in world coordinates.
	CameraPosition    r3.Vector  `json:"camera_position"`
	CameraOrientation [4]float64 `json:"camera_orientation"`
}

// DefaultConfig returns the workcell's calibrated constants.
func DefaultConfig() Config {
	return Config{
		MinDepth:          150,
		MaxDepth:          700,
		DepthScale:        1000.0,
		TargetColor:       color.NRGBA{R: 128, G: 96, B: 49, A: 255},
		PositiveTol:       color.NRGBA{R: 20, G: 20, B: 20},
		NegativeTol:       color.NRGBA{R: 30, G: 30, B: 30},
		ClusterRadius:     0.01,
		ClusterMinPoints:  10,
		VoxelSize:         0.001,
		AngleStep:         3,
		YRange:            SearchRange{Start: -30, Stop: 35},
		XRange:            SearchRange{Start: -30, Stop: 35},
		ZRange:            SearchRange{Start: 0, Stop: 360},
		FitTolerance:      0.01,
		CameraPosition:    r3.Vector{X: 0.42104, Y: 0, Z: 0.78244},
		CameraOrientation: [4]float64{0.0, 0.707107, -0.707107, 0},
	}
}

// NewConfigFromJSONFile reads a Config from a JSON file, starting from the
// defaults so partial files only override what they name.
func NewConfigFromJSONFile(jsonPath string) (Config, error) {
	cfg := DefaultConfig()
	//nolint:gosec
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return cfg, errors.Wrap(err, "error reading config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "error parsing config file")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config fields for valid inputs.
func (cfg *Config) Validate() error {
	if cfg.MinDepth >= cfg.MaxDepth {
		return errors.Errorf("depth window is empty: [%d, %d]", cfg.MinDepth, cfg.MaxDepth)
	}
	if cfg.DepthScale <= 0 {
		return errors.Errorf("depth scale must be positive, got %v", cfg.DepthScale)
	}
	if cfg.ClusterRadius <= 0 {
		return errors.Errorf("cluster radius must be positive, got %v", cfg.ClusterRadius)
	}
	if cfg.ClusterMinPoints <= 0 {
		return errors.Errorf("cluster min points must be positive, got %d", cfg.ClusterMinPoints)
	}
	if cfg.VoxelSize <= 0 {
		return errors.Errorf("voxel size must be positive, got %v", cfg.VoxelSize)
	}
	if cfg.AngleStep <= 0 {
		return errors.Errorf("angle step must be positive, got %v", cfg.AngleStep)
	}
	if cfg.FitTolerance <= 0 {
		return errors.Errorf("fit tolerance must be positive, got %v", cfg.FitTolerance)
	}
	for _, rng := range []SearchRange{cfg.YRange, cfg.XRange, cfg.ZRange} {
		if rng.Stop <= rng.Start {
			return errors.Errorf("empty search range [%v, %v)", rng.Start, rng.Stop)
		}
	}
	return nil
}

// cameraQuaternion returns the extrinsic orientation as a gonum quaternion.
func (cfg *Config) cameraQuaternion() quat.Number {
	q := cfg.CameraOrientation
	return quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
}
