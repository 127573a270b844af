package alignment

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/spatialmath"
)

// Axis selects the rotation axis of a search sweep.
type Axis int

// The three searchable axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// rotation returns the rotation of deg degrees about the axis.
func (a Axis) rotation(deg float64) *spatialmath.RotationMatrix {
	switch a {
	case AxisX:
		return spatialmath.RX(deg)
	case AxisY:
		return spatialmath.RY(deg)
	default:
		return spatialmath.RZ(deg)
	}
}

// SearchResult is the outcome of a single-axis sweep.
type SearchResult struct {
	// Angle is the winning angle in degrees, one of the sampled values.
	Angle float64
	// Rotation is the rotation matrix of the winning angle.
	Rotation *spatialmath.RotationMatrix
	// MeanDistance is the mean nearest-neighbor distance at the winning
	// angle.
	MeanDistance float64
	// FitPercent is the share (0-100) of model points whose nearest
	// observed point lies within the fit tolerance, at the winning angle.
	FitPercent float64
}

// SearchRotation sweeps rotations of the model about one axis over rng at
// the given step, minimizing the mean nearest-neighbor distance to the
// object cloud. Every candidate rotates the initial model points about the
// initial centroid; rotations never compound within the sweep. Ties keep
// the first angle in scan order. The returned cloud is the model rotated by
// the winning angle only.
func SearchRotation(
	model, object pc.PointCloud,
	axis Axis,
	rng SearchRange,
	step, fitTolerance float64,
) (pc.PointCloud, SearchResult, error) {
	if model.Size() == 0 || object.Size() == 0 {
		return nil, SearchResult{}, errors.Errorf(
			"degenerate rotation search about %s: model has %d points, object has %d",
			axis, model.Size(), object.Size())
	}
	if step <= 0 {
		return nil, SearchResult{}, errors.Errorf("angle step must be positive, got %v", step)
	}
	if rng.Stop <= rng.Start {
		return nil, SearchResult{}, errors.Errorf("empty search range [%v, %v)", rng.Start, rng.Stop)
	}

	initial := make([]pc.PointAndData, 0, model.Size())
	pivot := r3.Vector{}
	model.Iterate(func(p r3.Vector, d pc.Data) bool {
		initial = append(initial, pc.PointAndData{P: p, D: d})
		pivot = pivot.Add(p)
		return true
	})
	pivot = pivot.Mul(1.0 / float64(len(initial)))

	kd := pc.ToKDTree(object)

	var (
		found         bool
		bestAngle     float64
		bestMean      float64
		bestDistances []float64
	)
	distances := make([]float64, len(initial))
	for angle := rng.Start; angle < rng.Stop; angle += step {
		rm := axis.rotation(angle)
		total := 0.0
		for i, pd := range initial {
			rotated := rm.Apply(pd.P.Sub(pivot)).Add(pivot)
			_, _, dist := kd.Nearest(rotated)
			distances[i] = dist
			total += dist
		}
		mean := total / float64(len(initial))
		if !found || mean < bestMean {
			found = true
			bestAngle = angle
			bestMean = mean
			bestDistances = append(bestDistances[:0], distances...)
		}
	}
	if !found {
		return nil, SearchResult{}, errors.Errorf("rotation search about %s found no valid minimum", axis)
	}

	bestRotation := axis.rotation(bestAngle)
	rotated := pc.NewWithPrealloc(len(initial))
	for _, pd := range initial {
		if err := rotated.Set(bestRotation.Apply(pd.P.Sub(pivot)).Add(pivot), pd.D); err != nil {
			return nil, SearchResult{}, err
		}
	}

	within := 0
	for _, dist := range bestDistances {
		if dist < fitTolerance {
			within++
		}
	}
	fit := float64(within) / float64(len(bestDistances)) * 100.0

	return rotated, SearchResult{
		Angle:        bestAngle,
		Rotation:     bestRotation,
		MeanDistance: bestMean,
		FitPercent:   fit,
	}, nil
}
