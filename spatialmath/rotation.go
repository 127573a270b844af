// Package spatialmath defines the spatial mathematical operations needed to
// express and compose rigid transforms: rotation matrices, quaternions, and
// rotation-plus-translation transforms.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

const (
	radToDeg = 180 / math.Pi
	degToRad = math.Pi / 180
)

// RotationMatrix is a 3x3 rotation matrix in row major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates a rotation matrix from the given row major
// slice of values. Orthonormality is the caller's responsibility.
func NewRotationMatrix(m [9]float64) *RotationMatrix {
	return &RotationMatrix{m}
}

// NewZeroRotation returns the identity rotation.
func NewZeroRotation() *RotationMatrix {
	return &RotationMatrix{[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// NewRotationMatrixFromAxisAngle builds the rotation of theta radians about
// the given axis using the Rodrigues formula.
func NewRotationMatrixFromAxisAngle(axis r3.Vector, theta float64) *RotationMatrix {
	u := axis.Normalize()
	c := math.Cos(theta)
	s := math.Sin(theta)
	v := 1 - c
	return &RotationMatrix{[9]float64{
		u.X*u.X*v + c, u.X*u.Y*v - u.Z*s, u.X*u.Z*v + u.Y*s,
		u.X*u.Y*v + u.Z*s, u.Y*u.Y*v + c, u.Y*u.Z*v - u.X*s,
		u.X*u.Z*v - u.Y*s, u.Y*u.Z*v + u.X*s, u.Z*u.Z*v + c,
	}}
}

// RX returns the rotation of deg degrees about the X axis.
func RX(deg float64) *RotationMatrix {
	return NewRotationMatrixFromAxisAngle(r3.Vector{X: 1}, deg*degToRad)
}

// RY returns the rotation of deg degrees about the Y axis.
func RY(deg float64) *RotationMatrix {
	return NewRotationMatrixFromAxisAngle(r3.Vector{Y: 1}, deg*degToRad)
}

// RZ returns the rotation of deg degrees about the Z axis.
func RZ(deg float64) *RotationMatrix {
	return NewRotationMatrixFromAxisAngle(r3.Vector{Z: 1}, deg*degToRad)
}

// At returns the value of the matrix at the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Mul returns the product rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	a := rm.mat
	b := other.mat
	return &RotationMatrix{[9]float64{
		a[0]*b[0] + a[1]*b[3] + a[2]*b[6],
		a[0]*b[1] + a[1]*b[4] + a[2]*b[7],
		a[0]*b[2] + a[1]*b[5] + a[2]*b[8],
		a[3]*b[0] + a[4]*b[3] + a[5]*b[6],
		a[3]*b[1] + a[4]*b[4] + a[5]*b[7],
		a[3]*b[2] + a[4]*b[5] + a[5]*b[8],
		a[6]*b[0] + a[7]*b[3] + a[8]*b[6],
		a[6]*b[1] + a[7]*b[4] + a[8]*b[7],
		a[6]*b[2] + a[7]*b[5] + a[8]*b[8],
	}}
}

// Apply rotates the given vector.
func (rm *RotationMatrix) Apply(v r3.Vector) r3.Vector {
	m := rm.mat
	return r3.Vector{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Quaternion returns the unit quaternion of the rotation, scalar part in
// Real and vector part in Imag/Jmag/Kmag.
func (rm *RotationMatrix) Quaternion() quat.Number {
	var q quat.Number
	m := rm.mat

	// converting to quaternion form involves taking the square root of the
	// trace, with the largest diagonal term chosen for numerical stability.
	tr := m[0] + m[4] + m[8]
	switch {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1.0)
		q.Real = 0.25 / s
		q.Imag = (m[7] - m[5]) * s
		q.Jmag = (m[2] - m[6]) * s
		q.Kmag = (m[3] - m[1]) * s
	case m[0] > m[4] && m[0] > m[8]:
		s := 2.0 * math.Sqrt(1.0+m[0]-m[4]-m[8])
		q.Real = (m[7] - m[5]) / s
		q.Imag = 0.25 * s
		q.Jmag = (m[1] + m[3]) / s
		q.Kmag = (m[2] + m[6]) / s
	case m[4] > m[8]:
		s := 2.0 * math.Sqrt(1.0+m[4]-m[0]-m[8])
		q.Real = (m[2] - m[6]) / s
		q.Imag = (m[1] + m[3]) / s
		q.Jmag = 0.25 * s
		q.Kmag = (m[5] + m[7]) / s
	default:
		s := 2.0 * math.Sqrt(1.0+m[8]-m[0]-m[4])
		q.Real = (m[3] - m[1]) / s
		q.Imag = (m[2] + m[6]) / s
		q.Jmag = (m[5] + m[7]) / s
		q.Kmag = 0.25 * s
	}
	return q
}

// NewRotationMatrixFromQuaternion builds the rotation matrix of a unit
// quaternion.
func NewRotationMatrixFromQuaternion(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{[9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}
