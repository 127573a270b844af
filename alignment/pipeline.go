package alignment

import (
	"context"
	"io"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ateliercnc/graveur/camera"
	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/segmentation"
)

// Pipeline runs the full localization loop: acquire a frame, isolate the
// object, align the model, compose the world pose. The model cloud given at
// construction is the initial sampled state; every frame starts from it,
// never from the previous frame's rotated copy.
type Pipeline struct {
	cfg     Config
	model   pc.PointCloud
	aligner *Aligner
	logger  golog.Logger
}

// NewPipeline validates the config and returns a Pipeline using the given
// prepared model cloud.
func NewPipeline(cfg Config, model pc.PointCloud, logger golog.Logger) (*Pipeline, error) {
	if model == nil || model.Size() == 0 {
		return nil, errors.New("model cloud is empty")
	}
	aligner, err := NewAligner(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, model: model, aligner: aligner, logger: logger}, nil
}

// ProcessFrame estimates the object pose from a single frame. It returns
// segmentation.ErrNoObject when the frame holds no usable object; the
// caller skips the frame. Any other error is a real fault.
func (p *Pipeline) ProcessFrame(frame *camera.Frame) (Pose, error) {
	cloud, err := frame.PointCloud(p.cfg.MinDepth, p.cfg.MaxDepth, p.cfg.DepthScale)
	if err != nil {
		return Pose{}, err
	}

	window := &segmentation.ColorWindow{
		Target:      p.cfg.TargetColor,
		PositiveTol: p.cfg.PositiveTol,
		NegativeTol: p.cfg.NegativeTol,
	}
	filtered := segmentation.FilterByColor(cloud, window)
	object, err := segmentation.LargestCluster(filtered, p.cfg.ClusterRadius, p.cfg.ClusterMinPoints)
	if err != nil {
		return Pose{}, err
	}

	result, err := p.aligner.Align(p.model, object)
	if err != nil {
		return Pose{}, err
	}
	return WorldPose(&p.cfg, result.ObjectCentroid, result.Rotation), nil
}

// Run loops over the source until the context is done or the stream ends.
// Incomplete frames and frames with no detected object are skipped; all
// other errors stop the loop and propagate.
func (p *Pipeline) Run(ctx context.Context, src camera.Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		frame, err := src.Next(ctx)
		switch {
		case errors.Is(err, camera.ErrIncompleteFrame):
			p.logger.Debug("incomplete frame; skipping")
			continue
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			return err
		}

		pose, err := p.ProcessFrame(frame)
		if errors.Is(err, segmentation.ErrNoObject) {
			p.logger.Debug("no object detected; skipping frame")
			continue
		}
		if err != nil {
			return err
		}
		q := pose.ScalarFirst()
		p.logger.Infow("object pose",
			"x", pose.Position.X,
			"y", pose.Position.Y,
			"z", pose.Position.Z,
			"qw", q[0],
			"qx", q[1],
			"qy", q[2],
			"qz", q[3],
		)
	}
}
