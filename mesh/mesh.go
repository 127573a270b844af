// Package mesh loads the reference model: a triangulated surface read from
// a PLY file, rescaled to the point cloud's metric units, sampled to a
// point set, and reduced to its bottom face.
package mesh

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Triangle is a three-cornered face of a mesh.
type Triangle struct {
	p0, p1, p2 r3.Vector
}

// NewTriangle creates a triangle from three points.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{p0: p0, p1: p1, p2: p2}
}

// Points returns the three points associated with the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Area returns the surface area of the triangle.
func (t *Triangle) Area() float64 {
	return t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm() / 2
}

// Mesh is a triangulated surface.
type Mesh struct {
	vertices  []r3.Vector
	triangles [][3]int
}

// NewMesh builds a mesh from vertices and triangle index triples.
func NewMesh(vertices []r3.Vector, triangles [][3]int) (*Mesh, error) {
	for _, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("triangle index %d out of range (%d vertices)", idx, len(vertices))
			}
		}
	}
	return &Mesh{vertices: vertices, triangles: triangles}, nil
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the number of faces in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Triangle returns the i-th face.
func (m *Mesh) Triangle(i int) *Triangle {
	tri := m.triangles[i]
	return NewTriangle(m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]])
}

// Center returns the mean of the mesh's vertices.
func (m *Mesh) Center() r3.Vector {
	if len(m.vertices) == 0 {
		return r3.Vector{}
	}
	total := r3.Vector{}
	for _, v := range m.vertices {
		total = total.Add(v)
	}
	return total.Mul(1.0 / float64(len(m.vertices)))
}

// Scale scales the mesh by the given factor about its center, deriving a
// new mesh. Units assumed millimeters; a factor of 0.001 converts to the
// cloud's meters.
func (m *Mesh) Scale(factor float64) *Mesh {
	center := m.Center()
	scaled := make([]r3.Vector, len(m.vertices))
	for i, v := range m.vertices {
		scaled[i] = v.Sub(center).Mul(factor).Add(center)
	}
	return &Mesh{vertices: scaled, triangles: m.triangles}
}
