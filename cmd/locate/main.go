// Package main runs the object localization pipeline over recorded frames,
// logging the object's world pose for each one.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/ateliercnc/graveur/alignment"
	"github.com/ateliercnc/graveur/camera"
	"github.com/ateliercnc/graveur/mesh"
	pc "github.com/ateliercnc/graveur/pointcloud"
)

var logger = golog.NewDevelopmentLogger("locate")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ModelPath      string `flag:"model,required,usage=path to the reference PLY mesh"`
	FrameDir       string `flag:"frames,required,usage=directory of recorded frame pairs (NNN.png + NNN.pgm)"`
	IntrinsicsPath string `flag:"intrinsics,required,usage=path to a camera intrinsics JSON file"`
	ConfigPath     string `flag:"config,usage=JSON file overriding the default pipeline constants"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg := alignment.DefaultConfig()
	if argsParsed.ConfigPath != "" {
		var err error
		cfg, err = alignment.NewConfigFromJSONFile(argsParsed.ConfigPath)
		if err != nil {
			return err
		}
	}

	model, err := mesh.PrepareModel(mesh.DefaultModelConfig(argsParsed.ModelPath), logger)
	if err != nil {
		return err
	}

	intrinsics, err := camera.NewIntrinsicsFromJSONFile(argsParsed.IntrinsicsPath)
	if err != nil {
		return err
	}
	source, err := camera.NewReplaySource(argsParsed.FrameDir, intrinsics)
	if err != nil {
		return err
	}

	return runPipeline(ctx, cfg, model, source, logger)
}

func runPipeline(
	ctx context.Context,
	cfg alignment.Config,
	model pc.PointCloud,
	source camera.Source,
	logger golog.Logger,
) (err error) {
	defer func() {
		err = multierr.Combine(err, source.Close())
	}()

	pipeline, err := alignment.NewPipeline(cfg, model, logger)
	if err != nil {
		return err
	}
	return pipeline.Run(ctx, source)
}
