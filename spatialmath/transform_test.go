package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestTransformApply(t *testing.T) {
	tf := NewTransform(RZ(90), r3.Vector{X: 1})
	got := tf.Apply(r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(got, r3.Vector{X: 1, Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestTransformCompose(t *testing.T) {
	translate := NewTranslation(r3.Vector{X: 1})
	rotate := NewRotation(RZ(90))

	// rotate-then-translate vs translate-then-rotate
	a := translate.Compose(rotate).Apply(r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(a, r3.Vector{X: 1, Y: 1}, 1e-9), test.ShouldBeTrue)
	b := rotate.Compose(translate).Apply(r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(b, r3.Vector{Y: 2}, 1e-9), test.ShouldBeTrue)
}

func TestTransformQuaternionRoundTrip(t *testing.T) {
	original := NewTransform(RX(33).Mul(RY(-71)).Mul(RZ(140)), r3.Vector{X: 0.1, Y: -2, Z: 3})

	rebuilt := NewTransformFromQuaternion(original.Position(), original.Quaternion())
	test.That(t, RotationMatrixAlmostEqual(original.R, rebuilt.R, 1e-6), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(original.T, rebuilt.T, 1e-9), test.ShouldBeTrue)
}

func TestQuaternionAlmostEqualSign(t *testing.T) {
	q := RZ(137).Quaternion()
	neg := quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
	test.That(t, QuaternionAlmostEqual(q, neg, 1e-9), test.ShouldBeTrue)
}
