package gcode

import (
	"fmt"
	"math"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/rpaloschi/dxf-go/core"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
	"go.viam.com/utils"
)

const (
	// arcSegments is how many line segments arcs and circles flatten into.
	arcSegments = 50
	// splineSegments is how many line segments a spline flattens into.
	splineSegments = 60
)

// FromDXF parses a DXF file and converts its supported entities to a
// G-code program: lines, arcs, circles, points, splines, and both polyline
// flavors. Closed polylines get a final engraving move back to their first
// vertex. Unsupported entities are logged and skipped.
func FromDXF(path string, opts Options, logger golog.Logger) (*Program, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening DXF file %q", path)
	}
	defer utils.UncheckedErrorFunc(f.Close)

	doc, err := document.DxfDocumentFromStream(f)
	if err != nil {
		return nil, errors.Wrapf(err, "file %q is not a valid DXF file", path)
	}

	program := NewProgram(opts)
	for _, entity := range doc.Entities.Entities {
		switch e := entity.(type) {
		case *entities.Line:
			program.Trace([][2]float64{
				{e.Start.X, e.Start.Y},
				{e.End.X, e.End.Y},
			})
		case *entities.Arc:
			start := e.StartAngle * math.Pi / 180
			end := e.EndAngle * math.Pi / 180
			// DXF arcs run counterclockwise; wrap through zero
			if end <= start {
				end += 2 * math.Pi
			}
			program.Trace(flattenArc(e.Center.X, e.Center.Y, e.Radius, start, end))
		case *entities.Circle:
			program.Trace(flattenArc(e.Center.X, e.Center.Y, e.Radius, 0, 2*math.Pi))
		case *entities.Point:
			x, y := opts.apply(e.Location.X, e.Location.Y)
			program.LaserOff()
			program.Rapid(x, y)
		case *entities.Polyline:
			points := make([][2]float64, 0, len(e.Vertices)+1)
			for _, v := range e.Vertices {
				points = append(points, [2]float64{v.Location.X, v.Location.Y})
			}
			program.Trace(closePath(points, e.Closed))
		case *entities.LWPolyline:
			points := make([][2]float64, 0, len(e.Points)+1)
			for _, pt := range e.Points {
				points = append(points, [2]float64{pt.Point.X, pt.Point.Y})
			}
			program.Trace(closePath(points, e.Closed))
		case *entities.Spline:
			points, err := flattenSpline(e)
			if err != nil {
				logger.Warnw("skipping unusable SPLINE entity", "error", err)
				continue
			}
			program.Trace(closePath(points, e.Closed))
		default:
			logger.Warnw("skipping unsupported DXF entity", "type", fmt.Sprintf("%T", entity))
		}
	}
	program.Finish()
	return program, nil
}

// closePath appends the first point again when the path is flagged closed,
// so the closing segment gets engraved.
func closePath(points [][2]float64, closed bool) [][2]float64 {
	if closed && len(points) > 1 && points[len(points)-1] != points[0] {
		points = append(points, points[0])
	}
	return points
}

// flattenArc interpolates an arc into segment endpoints. Radius is in
// drawing units, angles in radians.
func flattenArc(cx, cy, radius, start, end float64) [][2]float64 {
	points := make([][2]float64, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		angle := start + (end-start)*float64(i)/arcSegments
		points = append(points, [2]float64{
			cx + radius*math.Cos(angle),
			cy + radius*math.Sin(angle),
		})
	}
	return points
}

// flattenSpline interpolates a B-spline into segment endpoints, evaluated
// with De Boor's algorithm over the spline's own knot vector. A spline
// carrying only fit points falls back to the fit polygon.
func flattenSpline(e *entities.Spline) ([][2]float64, error) {
	ctrl := e.ControlPoints
	knots := e.KnotValues
	degree := e.Degree
	if len(ctrl) == 0 {
		if len(e.FitPoints) == 0 {
			return nil, errors.New("spline has no control or fit points")
		}
		points := make([][2]float64, 0, len(e.FitPoints))
		for _, p := range e.FitPoints {
			points = append(points, [2]float64{p.X, p.Y})
		}
		return points, nil
	}
	if degree < 1 || len(ctrl) < degree+1 || len(knots) != len(ctrl)+degree+1 {
		return nil, errors.Errorf(
			"malformed spline: degree %d, %d control points, %d knots",
			degree, len(ctrl), len(knots))
	}

	lo := knots[degree]
	hi := knots[len(knots)-degree-1]
	if hi <= lo {
		return nil, errors.New("spline has an empty parameter range")
	}
	points := make([][2]float64, 0, splineSegments+1)
	for i := 0; i <= splineSegments; i++ {
		t := lo + (hi-lo)*float64(i)/splineSegments
		x, y := deBoor(t, degree, knots, ctrl)
		points = append(points, [2]float64{x, y})
	}
	return points, nil
}

// deBoor evaluates the B-spline at parameter t.
func deBoor(t float64, degree int, knots []float64, ctrl []core.Point) (float64, float64) {
	// knot span k with knots[k] <= t < knots[k+1], clamped to the last span
	k := degree
	for k < len(ctrl)-1 && t >= knots[k+1] {
		k++
	}

	d := make([]core.Point, degree+1)
	copy(d, ctrl[k-degree:k+1])
	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			i := j + k - degree
			den := knots[i+degree-r+1] - knots[i]
			alpha := 0.0
			if den != 0 {
				alpha = (t - knots[i]) / den
			}
			d[j] = core.Point{
				X: d[j-1].X*(1-alpha) + d[j].X*alpha,
				Y: d[j-1].Y*(1-alpha) + d[j].Y*alpha,
				Z: d[j-1].Z*(1-alpha) + d[j].Z*alpha,
			}
		}
	}
	return d[degree].X, d[degree].Y
}
