package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * radToDeg
}

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * degToRad
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the
// all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// QuaternionAlmostEqual returns whether two quaternions represent the same
// rotation within tolerance. q and -q are the same rotation.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	if quatDist(a, b) < tol {
		return true
	}
	neg := quat.Number{Real: -b.Real, Imag: -b.Imag, Jmag: -b.Jmag, Kmag: -b.Kmag}
	return quatDist(a, neg) < tol
}

func quatDist(a, b quat.Number) float64 {
	d := quat.Sub(a, b)
	return math.Sqrt(d.Real*d.Real + d.Imag*d.Imag + d.Jmag*d.Jmag + d.Kmag*d.Kmag)
}

// RotationMatrixAlmostEqual returns whether all elementwise differences of
// the two matrices are less than epsilon.
func RotationMatrixAlmostEqual(a, b *RotationMatrix, epsilon float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) >= epsilon {
				return false
			}
		}
	}
	return true
}
