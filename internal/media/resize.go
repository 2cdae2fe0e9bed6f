package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// resizeImage decodes f, scales it down to fit within the configured maximum
// side (never up), and re-encodes as JPEG at the fixed quality.
func (p *Processor) resizeImage(f model.MediaFile) (*model.ProcessedFile, error) {
	src, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrUnsupportedFormat, f.Name, err)
	}

	b := src.Bounds()
	w, h := targetSize(b.Dx(), b.Dy(), p.maxSide, p.maxSide)

	var out image.Image = src
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	return &model.ProcessedFile{
		Name:        jpegName(f.Name),
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Kind:        model.MediaKindImage,
	}, nil
}

// targetSize computes output dimensions preserving aspect ratio against the
// maxima. Scale down only, never up.
func targetSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func jpegName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name + ".jpg"
}
