package alignment

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/ateliercnc/graveur/spatialmath"
)

// Pose is an estimated object pose in world coordinates: a position and a
// scalar-first orientation quaternion.
type Pose struct {
	Position    r3.Vector
	Orientation quat.Number
}

// ScalarFirst returns the orientation as [w, x, y, z].
func (p Pose) ScalarFirst() [4]float64 {
	return [4]float64{p.Orientation.Real, p.Orientation.Imag, p.Orientation.Jmag, p.Orientation.Kmag}
}

// WorldTransform composes the full world transform of the object:
//
//	camera * (translation * rotation) * correction
//
// where camera is the fixed extrinsic transform, translation moves to the
// object's centroid in the camera frame, rotation is the found best-fit
// rotation, and correction is a fixed 90 degree X-axis rotation matching
// the model's reference orientation. Pure arithmetic; the caller is
// responsible for sanity-checking the result.
func WorldTransform(cfg *Config, objectCentroid r3.Vector, rotation *spatialmath.RotationMatrix) *spatialmath.Transform {
	object := spatialmath.NewTranslation(objectCentroid).Compose(spatialmath.NewRotation(rotation))
	cam := spatialmath.NewTransformFromQuaternion(cfg.CameraPosition, cfg.cameraQuaternion())
	correction := spatialmath.NewRotation(spatialmath.RX(90))
	return cam.Compose(object).Compose(correction)
}

// WorldPose decomposes the world transform into position and orientation.
func WorldPose(cfg *Config, objectCentroid r3.Vector, rotation *spatialmath.RotationMatrix) Pose {
	world := WorldTransform(cfg, objectCentroid, rotation)
	return Pose{Position: world.Position(), Orientation: world.Quaternion()}
}
