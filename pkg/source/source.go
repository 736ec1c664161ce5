// Package source supplies the frames the compositor consumes.
//
// A Source abstracts where frames come from so the playback driver does not
// care whether it is replaying a still image, cycling through a directory of
// stills, or producing synthetic test frames. Sources are pull-based: the
// driver asks for the next frame when it builds a pass.
package source

import (
	"context"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Frame decoders. BMP comes from golang.org/x/image; the rest are stdlib.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/disintegration/imaging"

	"github.com/mhuebner/videowall/pkg/errors"
)

// Source produces frames for compositing. Next blocks at most as long as the
// context allows; Close releases any underlying resources. Implementations
// need not be safe for concurrent Next calls.
type Source interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// frameExtensions are the file extensions Dir treats as frames.
var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// Uniform is a Source producing solid-color frames of a fixed size. It backs
// tests and the built-in demo mode, where no media directory is configured.
type Uniform struct {
	W, H  int
	Color color.NRGBA
}

// Next returns a fresh solid-color frame.
func (u *Uniform) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.W < 1 || u.H < 1 {
		return nil, errors.New(errors.ErrCodeInvalidSource, "uniform source size %dx%d must be positive", u.W, u.H)
	}
	return imaging.New(u.W, u.H, u.Color), nil
}

// Close is a no-op.
func (u *Uniform) Close() error { return nil }

// File is a Source replaying a single still image. The file is decoded once
// on the first Next and the frame is reused afterwards.
type File struct {
	Path string

	frame image.Image
}

// Next returns the decoded frame, loading it on first use.
func (f *File) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.frame == nil {
		frame, err := decodeFile(f.Path)
		if err != nil {
			return nil, err
		}
		f.frame = frame
	}
	return f.frame, nil
}

// Close drops the cached frame.
func (f *File) Close() error {
	f.frame = nil
	return nil
}

// Dir is a Source cycling through the still images of a directory in a
// seeded shuffled order. When the cycle completes it reshuffles and starts
// over, so playback never runs dry.
type Dir struct {
	paths []string
	rng   *rand.Rand
	pos   int
}

// OpenDir scans dir for frame files and returns a cycling source over them.
// The scan is non-recursive and keys on file extension. An empty directory
// is an error: a Dir source always has a next frame.
func OpenDir(dir string, seed uint64) (*Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "media directory %s", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "scan media directory %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSource, "no frame files in %s", dir)
	}

	// Sort before shuffling so the order depends only on the seed, not on
	// readdir order.
	sort.Strings(paths)

	d := &Dir{
		paths: paths,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	d.shuffle()
	return d, nil
}

// Len returns the number of frame files in the cycle.
func (d *Dir) Len() int { return len(d.paths) }

// Next decodes and returns the next frame in the shuffled cycle.
func (d *Dir) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.pos >= len(d.paths) {
		d.shuffle()
		d.pos = 0
	}
	path := d.paths[d.pos]
	d.pos++
	return decodeFile(path)
}

// Close is a no-op.
func (d *Dir) Close() error { return nil }

func (d *Dir) shuffle() {
	d.rng.Shuffle(len(d.paths), func(i, j int) {
		d.paths[i], d.paths[j] = d.paths[j], d.paths[i]
	})
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "frame file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open frame file %s", path)
	}
	defer f.Close()

	frame, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode frame %s", path)
	}
	return frame, nil
}
