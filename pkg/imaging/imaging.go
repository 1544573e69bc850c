// Package imaging decodes page images from disk or memory and scales them to
// a target size before they are handed to a toolkit.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedSource is returned when a Source names neither a path nor a
// blob.
var ErrUnsupportedSource = errors.New("imaging: source needs a path or a blob")

// Source identifies image bytes, either by path or in memory.
type Source struct {
	Path string
	Blob []byte
}

// FromPath returns a Source reading from path.
func FromPath(path string) Source { return Source{Path: path} }

// FromBlob returns a Source reading from data.
func FromBlob(data []byte) Source { return Source{Blob: data} }

// Loader decodes and scales images. The long edge of the result equals size.
type Loader interface {
	Load(ctx context.Context, src Source, size int) (image.Image, error)
}

// Option configures a Service.
type Option func(*Service)

// WithFS resolves relative paths against fsys instead of the working
// directory.
func WithFS(fsys fs.FS) Option {
	return func(s *Service) {
		s.fsys = fsys
	}
}

// WithInterpolator overrides the scaling kernel (CatmullRom by default).
func WithInterpolator(interp draw.Interpolator) Option {
	return func(s *Service) {
		if interp != nil {
			s.interp = interp
		}
	}
}

// Service is the default Loader.
type Service struct {
	fsys   fs.FS
	interp draw.Interpolator
}

var _ Loader = (*Service)(nil)

// New constructs a Service.
func New(opts ...Option) *Service {
	s := &Service{interp: draw.CatmullRom}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Load decodes src and scales it so its long edge is size pixels.
func (s *Service) Load(ctx context.Context, src Source, size int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.read(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", describe(src), err)
	}
	return Scale(img, size, s.interp), nil
}

func (s *Service) read(src Source) ([]byte, error) {
	switch {
	case len(src.Blob) > 0:
		return src.Blob, nil
	case src.Path != "":
		if s.fsys != nil && !filepath.IsAbs(src.Path) {
			data, err := fs.ReadFile(s.fsys, filepath.ToSlash(filepath.Clean(src.Path)))
			if err != nil {
				return nil, fmt.Errorf("imaging: read %s: %w", src.Path, err)
			}
			return data, nil
		}
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("imaging: read %s: %w", src.Path, err)
		}
		return data, nil
	default:
		return nil, ErrUnsupportedSource
	}
}

// Scale resizes img so its long edge is size pixels, keeping the aspect
// ratio. A non-positive size returns img unchanged.
func Scale(img image.Image, size int, interp draw.Interpolator) image.Image {
	if img == nil || size <= 0 {
		return img
	}
	if interp == nil {
		interp = draw.CatmullRom
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return img
	}
	nw, nh := size, size
	if w >= h {
		nh = max(1, (h*size+w/2)/w)
	} else {
		nw = max(1, (w*size+h/2)/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	interp.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func describe(src Source) string {
	if src.Path != "" {
		return src.Path
	}
	return fmt.Sprintf("blob (%d bytes)", len(src.Blob))
}
