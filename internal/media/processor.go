// Package media validates and transforms attachments before upload: images
// are scaled down and re-encoded, video and audio pass through unchanged.
package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// Extension allow-lists per media category.
var (
	imageExts = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}}
	videoExts = map[string]struct{}{".mp4": {}, ".webm": {}, ".mov": {}}
	audioExts = map[string]struct{}{".mp3": {}, ".ogg": {}, ".wav": {}, ".m4a": {}}
)

// Processor validates and transforms raw files. It has no network or storage
// access; ProcessFile returns a new file value.
type Processor struct {
	maxFileSize int64
	maxSide     int
	jpegQuality int
	log         *zap.Logger
}

// NewProcessor creates a processor with the given limits.
func NewProcessor(maxFileSize int64, maxSide, jpegQuality int, log *zap.Logger) *Processor {
	return &Processor{
		maxFileSize: maxFileSize,
		maxSide:     maxSide,
		jpegQuality: jpegQuality,
		log:         log,
	}
}

// ProcessFile validates f and returns the upload-ready version. Images larger
// than the configured maximum are scaled down preserving aspect ratio and
// re-encoded; video and audio are validated only.
func (p *Processor) ProcessFile(f model.MediaFile) (*model.ProcessedFile, error) {
	// Size precedes format: an oversized file is rejected as too large even
	// when its extension is off-list.
	if int64(len(f.Data)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", errs.ErrFileTooLarge, f.Name, len(f.Data))
	}
	kind, ok := kindForExt(strings.ToLower(filepath.Ext(f.Name)))
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedFormat, f.Name)
	}

	mt := mimetype.Detect(f.Data)
	if !mimeMatchesKind(mt.String(), kind) {
		return nil, fmt.Errorf("%w: %s detected as %s", errs.ErrUnsupportedFormat, f.Name, mt.String())
	}

	if kind == model.MediaKindImage && mt.String() != "image/gif" {
		out, err := p.resizeImage(f)
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	// Video, audio and animated gif pass through unchanged.
	return &model.ProcessedFile{
		Name:        f.Name,
		Data:        f.Data,
		ContentType: mt.String(),
		Kind:        kind,
	}, nil
}

func kindForExt(ext string) (model.MediaKind, bool) {
	if _, ok := imageExts[ext]; ok {
		return model.MediaKindImage, true
	}
	if _, ok := videoExts[ext]; ok {
		return model.MediaKindVideo, true
	}
	if _, ok := audioExts[ext]; ok {
		return model.MediaKindAudio, true
	}
	return "", false
}

func mimeMatchesKind(mime string, kind model.MediaKind) bool {
	switch kind {
	case model.MediaKindImage:
		return strings.HasPrefix(mime, "image/")
	case model.MediaKindVideo:
		return strings.HasPrefix(mime, "video/")
	case model.MediaKindAudio:
		// Some containers (e.g. m4a) sniff as video/mp4.
		return strings.HasPrefix(mime, "audio/") || mime == "video/mp4"
	}
	return false
}
