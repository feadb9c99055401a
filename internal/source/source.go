// Package source decodes the poster files named by manifest entries.
package source

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/piwi3910/scripttaste/internal/model"
)

// Loader resolves and decodes entry images.
type Loader struct {
	BaseDir    string    // relative image paths are resolved against it
	Background model.RGB // transparent pixels are flattened onto this color
	Logger     *log.Logger
}

func NewLoader(baseDir string, background model.RGB, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Loader{BaseDir: baseDir, Background: background, Logger: logger}
}

// Resolve returns the file path an entry's image is read from.
func (l *Loader) Resolve(e model.Entry) string {
	if filepath.IsAbs(e.ImagePath) || l.BaseDir == "" {
		return e.ImagePath
	}
	return filepath.Join(l.BaseDir, e.ImagePath)
}

// Load decodes every entry's image. Entries whose file is missing or
// undecodable, or whose weight is not a positive finite number, are skipped and reported
// rather than failing the batch. Only cancellation returns an error.
func (l *Loader) Load(ctx context.Context, entries []model.Entry) ([]model.WeightedImage, []model.Skipped, error) {
	var images []model.WeightedImage
	var skipped []model.Skipped

	skip := func(e model.Entry, reason string) {
		l.Logger.Warn("skipping entry", "label", e.Label, "reason", reason)
		skipped = append(skipped, model.Skipped{ID: e.ID, Label: e.Label, Weight: e.Weight, Reason: reason})
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !(e.Weight > 0) || math.IsInf(e.Weight, 0) {
			skip(e, fmt.Sprintf("invalid weight %v", e.Weight))
			continue
		}
		path := l.Resolve(e)
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			skip(e, fmt.Sprintf("cannot open image %s: %v", path, err))
			continue
		}
		if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
			skip(e, fmt.Sprintf("image %s is empty", path))
			continue
		}
		l.Logger.Debug("loaded poster", "label", e.Label, "path", path,
			"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
		images = append(images, model.WeightedImage{
			ID:     e.ID,
			Label:  e.Label,
			Weight: e.Weight,
			Image:  Flatten(img, l.Background),
		})
	}
	return images, skipped, nil
}

// Flatten composites img over an opaque background so the result carries
// no transparency. The result always starts at the origin.
func Flatten(img image.Image, background model.RGB) *image.NRGBA {
	b := img.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), background.NRGBA())
	return imaging.Overlay(base, img, image.Pt(0, 0), 1.0)
}
