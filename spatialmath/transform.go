package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid rotation-then-translation, the 3x3 + 3x1 blocks of a
// 4x4 homogeneous transform matrix. Transforms compose by multiplication,
// right-to-left.
type Transform struct {
	R *RotationMatrix
	T r3.Vector
}

// NewZeroTransform returns the identity transform.
func NewZeroTransform() *Transform {
	return &Transform{R: NewZeroRotation()}
}

// NewTransform builds a transform from a rotation and a translation.
func NewTransform(r *RotationMatrix, t r3.Vector) *Transform {
	return &Transform{R: r, T: t}
}

// NewTranslation returns a pure translation.
func NewTranslation(t r3.Vector) *Transform {
	return &Transform{R: NewZeroRotation(), T: t}
}

// NewRotation returns a pure rotation about the origin.
func NewRotation(r *RotationMatrix) *Transform {
	return &Transform{R: r}
}

// NewTransformFromQuaternion builds a transform from a position and a unit
// orientation quaternion.
func NewTransformFromQuaternion(pos r3.Vector, q quat.Number) *Transform {
	return &Transform{R: NewRotationMatrixFromQuaternion(q), T: pos}
}

// Compose returns tf * other, the transform applying other first and tf
// second.
func (tf *Transform) Compose(other *Transform) *Transform {
	return &Transform{
		R: tf.R.Mul(other.R),
		T: tf.R.Apply(other.T).Add(tf.T),
	}
}

// Apply transforms the given vector.
func (tf *Transform) Apply(v r3.Vector) r3.Vector {
	return tf.R.Apply(v).Add(tf.T)
}

// Position returns the translation column of the transform.
func (tf *Transform) Position() r3.Vector {
	return tf.T
}

// Quaternion returns the orientation of the transform as a unit quaternion.
func (tf *Transform) Quaternion() quat.Number {
	return tf.R.Quaternion()
}
