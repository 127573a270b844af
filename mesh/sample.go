package mesh

import (
	"math"
	"math/rand"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// sampleSeed fixes the sampler's random source so a given mesh always
// yields the same point set.
const sampleSeed = 42

// SamplePoints samples n points uniformly over the mesh surface,
// area-weighted across faces with uniform barycentric placement within a
// face. Deterministic for a given mesh and n.
func SamplePoints(m *Mesh, n int) ([]r3.Vector, error) {
	if n <= 0 {
		return nil, errors.Errorf("sample count must be positive, got %d", n)
	}
	if m.TriangleCount() == 0 {
		return nil, errors.New("mesh has no faces to sample")
	}

	cumulative := make([]float64, m.TriangleCount())
	total := 0.0
	for i := 0; i < m.TriangleCount(); i++ {
		total += m.Triangle(i).Area()
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, errors.New("mesh has zero surface area")
	}

	//nolint:gosec
	rnd := rand.New(rand.NewSource(sampleSeed))
	points := make([]r3.Vector, 0, n)
	for i := 0; i < n; i++ {
		pick := rnd.Float64() * total
		idx := sort.SearchFloat64s(cumulative, pick)
		if idx >= len(cumulative) {
			idx = len(cumulative) - 1
		}
		tri := m.Triangle(idx).Points()

		// sqrt trick gives a uniform distribution over the triangle
		su := math.Sqrt(rnd.Float64())
		v := rnd.Float64()
		p := tri[0].Mul(1 - su).
			Add(tri[1].Mul(su * (1 - v))).
			Add(tri[2].Mul(su * v))
		points = append(points, p)
	}
	return points, nil
}
