// Package gcode converts DXF drawings into GRBL-flavored G-code and
// streams programs to a laser controller over a serial link.
package gcode

import (
	"fmt"
	"io"
	"strings"
)

// Options controls G-code generation.
type Options struct {
	// Power is the laser power for engraving moves, 0 to 1000.
	Power int
	// Feed is the engraving speed in mm/min.
	Feed float64
	// Scale multiplies drawing coordinates.
	Scale float64
	// OffsetX and OffsetY shift the drawing after scaling.
	OffsetX float64
	OffsetY float64
}

// DefaultOptions returns the engraver's standard power and feed.
func DefaultOptions() Options {
	return Options{Power: 1000, Feed: 600, Scale: 1.0}
}

// apply scales and offsets a drawing coordinate pair.
func (o Options) apply(x, y float64) (float64, float64) {
	return x*o.Scale + o.OffsetX, y*o.Scale + o.OffsetY
}

// Program is an ordered list of G-code commands.
type Program struct {
	opts  Options
	lines []string
}

// NewProgram starts a program with the standard preamble: metric units,
// absolute positioning, laser off.
func NewProgram(opts Options) *Program {
	p := &Program{opts: opts}
	p.add("G21")
	p.add("G90")
	p.LaserOff()
	return p
}

func (p *Program) add(line string) {
	p.lines = append(p.lines, line)
}

// LaserOn emits the command turning the laser on at the configured power.
func (p *Program) LaserOn() {
	p.add(fmt.Sprintf("M3 S%d", p.opts.Power))
}

// LaserOff emits the command turning the laser off.
func (p *Program) LaserOff() {
	p.add("M5")
}

// Rapid emits a positioning move; the laser must be off.
func (p *Program) Rapid(x, y float64) {
	p.add(fmt.Sprintf("G0 X%.3f Y%.3f", x, y))
}

// Engrave emits a cutting move at the configured feed.
func (p *Program) Engrave(x, y float64) {
	p.add(fmt.Sprintf("G1 X%.3f Y%.3f F%g", x, y, p.opts.Feed))
}

// Trace engraves a polyline: rapid to the first point with the laser off,
// then engrave through the rest. Empty and single-point polylines emit a
// bare positioning move.
func (p *Program) Trace(points [][2]float64) {
	if len(points) == 0 {
		return
	}
	x, y := p.opts.apply(points[0][0], points[0][1])
	p.LaserOff()
	p.Rapid(x, y)
	if len(points) == 1 {
		return
	}
	p.LaserOn()
	for _, pt := range points[1:] {
		x, y := p.opts.apply(pt[0], pt[1])
		p.Engrave(x, y)
	}
	p.LaserOff()
}

// Finish appends the trailer: laser off and return to origin.
func (p *Program) Finish() {
	p.LaserOff()
	p.add("G0 X0 Y0")
}

// Lines returns a copy of the program's commands.
func (p *Program) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// WriteTo writes the program one command per line.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, strings.Join(p.lines, "\n")+"\n")
	return int64(n), err
}
