package mesh

import (
	"os"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Load reads a triangulated mesh from a PLY file.
func Load(path string) (mesh *Mesh, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening mesh file %q", path)
	}
	defer utils.UncheckedErrorFunc(f.Close)

	defer func() {
		// goply panics on malformed input
		if r := recover(); r != nil {
			err = errors.Errorf("file %q is not a valid PLY file: %v", path, r)
		}
	}()
	ply := goply.New(f)

	plyVertices := ply.Elements("vertex")
	plyFaces := ply.Elements("face")
	if len(plyVertices) == 0 || len(plyFaces) == 0 {
		return nil, errors.Errorf("mesh file %q has no vertices or faces", path)
	}

	vertices := make([]r3.Vector, 0, len(plyVertices))
	for i, v := range plyVertices {
		x, xerr := plyFloat(v["x"])
		y, yerr := plyFloat(v["y"])
		z, zerr := plyFloat(v["z"])
		if xerr != nil || yerr != nil || zerr != nil {
			return nil, errors.Errorf("vertex %d has non-numeric coordinates", i)
		}
		vertices = append(vertices, r3.Vector{X: x, Y: y, Z: z})
	}

	triangles := make([][3]int, 0, len(plyFaces))
	for i, f := range plyFaces {
		raw, ok := f["vertex_indices"]
		if !ok {
			raw = f["vertex_index"]
		}
		indices, err := plyIndices(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "face %d", i)
		}
		// fan-triangulate faces with more than three corners
		for j := 2; j < len(indices); j++ {
			triangles = append(triangles, [3]int{indices[0], indices[j-1], indices[j]})
		}
	}
	return NewMesh(vertices, triangles)
}

func plyFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, errors.Errorf("unsupported PLY numeric type %T", v)
	}
}

func plyIndices(v interface{}) ([]int, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, errors.Errorf("face indices have unsupported type %T", v)
	}
	if len(raw) < 3 {
		return nil, errors.Errorf("face has %d corners, need at least 3", len(raw))
	}
	indices := make([]int, len(raw))
	for i, r := range raw {
		f, err := plyFloat(r)
		if err != nil {
			return nil, err
		}
		indices[i] = int(f)
	}
	return indices, nil
}
