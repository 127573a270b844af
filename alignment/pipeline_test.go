package alignment

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/ateliercnc/graveur/camera"
	pc "github.com/ateliercnc/graveur/pointcloud"
	"github.com/ateliercnc/graveur/spatialmath"
)

// objectFrame is a 16x16 capture with a 4x4 block of object-colored pixels
// at 400mm. Everything else reads invalid depth.
func objectFrame(cfg *Config) (*camera.Frame, pc.PointCloud) {
	intrinsics := &camera.Intrinsics{Width: 16, Height: 16, Fx: 100, Fy: 100, Ppx: 8, Ppy: 8}
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	depth := camera.NewEmptyDepthMap(16, 16)

	expected := pc.New()
	for y := 6; y < 10; y++ {
		for x := 6; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: cfg.TargetColor.R, G: cfg.TargetColor.G, B: cfg.TargetColor.B, A: 255,
			})
			depth.Set(x, y, 400)
			px, py, pz := intrinsics.PixelToPoint(float64(x), float64(y), 0.4)
			//nolint:errcheck
			_ = expected.Set(pc.NewVector(px, py, pz), pc.NewBasicData())
		}
	}
	frame := &camera.Frame{Color: img, Depth: depth, Intrinsics: intrinsics}
	return frame, expected
}

func TestNewPipelineEmptyModel(t *testing.T) {
	logger := golog.NewTestLogger(t)
	_, err := NewPipeline(DefaultConfig(), nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPipeline(DefaultConfig(), pc.New(), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestProcessFrame(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := DefaultConfig()
	frame, model := objectFrame(&cfg)

	pipeline, err := NewPipeline(cfg, model, logger)
	test.That(t, err, test.ShouldBeNil)
	pose, err := pipeline.ProcessFrame(frame)
	test.That(t, err, test.ShouldBeNil)

	// model and object coincide, so the estimate is the centroid under
	// the camera extrinsics with no extra rotation
	want := WorldPose(&cfg, pc.CalculateMeanOfPointCloud(model), spatialmath.NewZeroRotation())
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Position, want.Position, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.QuaternionAlmostEqual(pose.Orientation, want.Orientation, 1e-9), test.ShouldBeTrue)
}

func TestProcessFrameNoObject(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := DefaultConfig()
	_, model := objectFrame(&cfg)
	pipeline, err := NewPipeline(cfg, model, logger)
	test.That(t, err, test.ShouldBeNil)

	// valid depths but no object-colored pixels
	intrinsics := &camera.Intrinsics{Width: 4, Height: 4, Fx: 100, Fy: 100, Ppx: 2, Ppy: 2}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	depth := camera.NewEmptyDepthMap(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			depth.Set(x, y, 400)
		}
	}
	blank := &camera.Frame{Color: img, Depth: depth, Intrinsics: intrinsics}
	_, err = pipeline.ProcessFrame(blank)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPipelineRun(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := DefaultConfig()
	frame, model := objectFrame(&cfg)
	pipeline, err := NewPipeline(cfg, model, logger)
	test.That(t, err, test.ShouldBeNil)

	// an incomplete frame, a good frame, then end of stream
	src := camera.NewStaticSource(nil, frame)
	test.That(t, pipeline.Run(context.Background(), src), test.ShouldBeNil)
}

func TestPipelineRunCanceled(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := DefaultConfig()
	frame, model := objectFrame(&cfg)
	pipeline, err := NewPipeline(cfg, model, logger)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := camera.NewStaticSource(frame)
	test.That(t, pipeline.Run(ctx, src), test.ShouldBeNil)
}
