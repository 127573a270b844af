// Package main converts a DXF drawing to G-code and streams it to a GRBL
// laser engraver over a serial port.
package main

import (
	"context"
	"os"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/ateliercnc/graveur/gcode"
)

var logger = golog.NewDevelopmentLogger("engrave")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	DXFPath string  `flag:"dxf,required,usage=path to the DXF file"`
	Port    string  `flag:"port,default=/dev/ttyACM0,usage=serial port of the engraver"`
	Baud    int     `flag:"baud,default=115200,usage=serial baud rate"`
	Power   int     `flag:"power,default=1000,usage=laser power (0 to 1000)"`
	Feed    float64 `flag:"feed,default=600,usage=engraving speed in mm/min"`
	Scale   float64 `flag:"scale,default=1,usage=scale factor for the drawing"`
	OffsetX float64 `flag:"offset-x,usage=X offset for the drawing"`
	OffsetY float64 `flag:"offset-y,usage=Y offset for the drawing"`
	NoHome  bool    `flag:"no-home,usage=skip homing during initialization"`
	DryRun  bool    `flag:"dry-run,usage=print the G-code instead of sending it"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	opts := gcode.Options{
		Power:   argsParsed.Power,
		Feed:    argsParsed.Feed,
		Scale:   argsParsed.Scale,
		OffsetX: argsParsed.OffsetX,
		OffsetY: argsParsed.OffsetY,
	}
	program, err := gcode.FromDXF(argsParsed.DXFPath, opts, logger)
	if err != nil {
		return err
	}

	if argsParsed.DryRun {
		_, err := program.WriteTo(os.Stdout)
		return err
	}
	return stream(ctx, program, argsParsed, logger)
}

func stream(ctx context.Context, program *gcode.Program, args Arguments, logger golog.Logger) (err error) {
	controller, err := gcode.OpenController(args.Port, args.Baud, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, controller.Close())
	}()

	if err := controller.Initialize(ctx, !args.NoHome); err != nil {
		return err
	}
	return controller.Stream(ctx, program)
}
