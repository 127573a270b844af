package camera

import (
	"bufio"
	"encoding/binary"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ReplaySource replays captures recorded to disk: for each frame a PNG
// color image and a 16-bit PGM depth map sharing a base name
// (NNN.png / NNN.pgm). Frames come back in lexical order, then io.EOF.
type ReplaySource struct {
	*StaticSource
}

// NewReplaySource loads every frame pair under dir.
func NewReplaySource(dir string, intrinsics *Intrinsics) (*ReplaySource, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading fixture dir %q", dir)
	}
	var bases []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			bases = append(bases, strings.TrimSuffix(e.Name(), ".png"))
		}
	}
	sort.Strings(bases)
	if len(bases) == 0 {
		return nil, errors.Errorf("no frame fixtures under %q", dir)
	}

	frames := make([]*Frame, 0, len(bases))
	for _, base := range bases {
		color, err := readPNG(filepath.Join(dir, base+".png"))
		if err != nil {
			return nil, err
		}
		depth, err := readPGM16(filepath.Join(dir, base+".pgm"))
		if err != nil {
			return nil, err
		}
		frame := &Frame{Color: color, Depth: depth, Intrinsics: intrinsics}
		if err := frame.CheckValid(); err != nil {
			return nil, errors.Wrapf(err, "fixture %q", base)
		}
		frames = append(frames, frame)
	}
	return &ReplaySource{NewStaticSource(frames...)}, nil
}

func readPNG(path string) (f *image.NRGBA, err error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening color fixture %q", path)
	}
	defer utils.UncheckedErrorFunc(file.Close)
	img, err := png.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding %q", path)
	}
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba, nil
	}
	b := img.Bounds()
	nrgba := image.NewNRGBA(b)
	draw.Draw(nrgba, b, img, b.Min, draw.Src)
	return nrgba, nil
}

// maxPGMDimension caps declared PGM dimensions; depth sensors top out far
// below this, so anything larger is a corrupt header.
const maxPGMDimension = 1 << 14

// readPGM16 reads a binary (P5) PGM with 16-bit big-endian samples, the
// format depth captures are dumped in.
func readPGM16(path string) (dm *DepthMap, err error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening depth fixture %q", path)
	}
	defer utils.UncheckedErrorFunc(file.Close)
	in := bufio.NewReader(file)

	header := make([]string, 4)
	for i := range header {
		tok, err := pgmToken(in)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing PGM header of %q", path)
		}
		header[i] = tok
	}
	width, werr := strconv.Atoi(header[1])
	height, herr := strconv.Atoi(header[2])
	maxVal, merr := strconv.Atoi(header[3])
	if header[0] != "P5" || werr != nil || herr != nil || merr != nil || maxVal != 65535 {
		return nil, errors.Errorf("%q is not a 16-bit binary PGM", path)
	}
	if width <= 0 || height <= 0 || width > maxPGMDimension || height > maxPGMDimension {
		return nil, errors.Errorf("%q declares unreasonable dimensions %dx%d", path, width, height)
	}

	dm = NewEmptyDepthMap(width, height)
	buf := make([]byte, 2)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(in, buf); err != nil {
				return nil, errors.Wrapf(err, "error reading depth data of %q", path)
			}
			dm.Set(x, y, Depth(binary.BigEndian.Uint16(buf)))
		}
	}
	return dm, nil
}

// pgmToken reads the next whitespace-delimited header token, consuming the
// single whitespace byte that terminates it so binary data stays aligned.
func pgmToken(in *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := in.ReadByte()
		if err != nil {
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() == 0 {
				continue
			}
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}
