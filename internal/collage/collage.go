// Package collage runs the full poster pipeline: normalize, sort, pack,
// compose and diffuse.
package collage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/scripttaste/internal/compose"
	"github.com/piwi3910/scripttaste/internal/diffuse"
	"github.com/piwi3910/scripttaste/internal/engine"
	"github.com/piwi3910/scripttaste/internal/model"
	"github.com/piwi3910/scripttaste/internal/normalize"
)

// Result is everything a sink needs from one build.
type Result struct {
	Canvas     *model.Canvas
	Mask       *model.DeadspaceMask
	Placements []model.Placement
	Skipped    []model.Skipped
	Stats      Stats
}

// Stats summarizes the layout and stage timings.
type Stats struct {
	CanvasArea       int
	CoveredArea      int
	DeadspacePercent float64

	NormalizeTime time.Duration
	PackTime      time.Duration
	ComposeTime   time.Duration
	DiffuseTime   time.Duration
}

// Builder holds settings and collaborators for Build. The zero value is not
// usable; call NewBuilder.
type Builder struct {
	Settings model.CollageSettings
	Logger   *log.Logger
	Packer   engine.Packer // nil selects by Settings.Algorithm
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.Logger = l
		}
	}
}

// WithPacker overrides the packing strategy chosen by the settings.
func WithPacker(p engine.Packer) Option {
	return func(b *Builder) { b.Packer = p }
}

func NewBuilder(settings model.CollageSettings, opts ...Option) *Builder {
	b := &Builder{
		Settings: settings,
		Logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns weighted images into a finished collage. Invalid settings or
// input fail before any work is done. Cancellation is honored between
// stages and between diffusion iterations.
func (b *Builder) Build(ctx context.Context, images []model.WeightedImage) (*Result, error) {
	if err := b.Settings.Validate(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: normalize
	start := time.Now()
	posters, skipped, err := normalize.New(b.Settings.Workers).Normalize(images)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Skipped = skipped
	result.Stats.NormalizeTime = time.Since(start)
	for _, s := range skipped {
		b.Logger.Warn("skipping poster", "label", s.Label, "reason", s.Reason)
	}
	b.Logger.Info("normalized posters",
		"posters", len(posters),
		"skipped", len(skipped),
		"duration", result.Stats.NormalizeTime)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: sort and pack
	start = time.Now()
	packer := b.Packer
	if packer == nil {
		packer = engine.New(b.Settings.Algorithm)
	}
	result.Placements = engine.Place(engine.SortBySize(posters), packer)
	result.Stats.PackTime = time.Since(start)
	b.Logger.Info("packed layout",
		"algorithm", b.Settings.Algorithm,
		"duration", result.Stats.PackTime)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: compose
	start = time.Now()
	result.Canvas, result.Mask = compose.Compose(result.Placements, b.Settings.Background, b.Settings.Margin)
	result.Stats.ComposeTime = time.Since(start)
	result.Stats.CanvasArea = result.Canvas.Width() * result.Canvas.Height()
	result.Stats.CoveredArea = result.Stats.CanvasArea - result.Mask.Count()
	result.Stats.DeadspacePercent = 100 * float64(result.Mask.Count()) / float64(result.Stats.CanvasArea)
	b.Logger.Info("composed canvas",
		"width", result.Canvas.Width(),
		"height", result.Canvas.Height(),
		"deadspace", fmt.Sprintf("%.1f%%", result.Stats.DeadspacePercent))

	// Stage 4: diffuse
	start = time.Now()
	d := diffuse.New(b.Settings.BlurFactor, b.Settings.BlurRadius)
	d.OnIteration = func(done, total int) {
		if done%10 == 0 || done == total {
			b.Logger.Debug("diffusing deadspace", "iteration", done, "of", total)
		}
	}
	if err := d.Apply(ctx, result.Canvas, result.Mask); err != nil {
		return nil, fmt.Errorf("diffuse: %w", err)
	}
	result.Stats.DiffuseTime = time.Since(start)
	b.Logger.Info("diffused deadspace",
		"iterations", b.Settings.BlurFactor,
		"duration", result.Stats.DiffuseTime)

	return result, nil
}
