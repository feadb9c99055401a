// Package diffuse softens canvas deadspace by repeatedly blurring the whole
// canvas and copying the blurred values back into deadspace only.
package diffuse

import (
	"context"
	"image"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/scripttaste/internal/model"
)

// Diffuser applies iterative masked Gaussian blur.
type Diffuser struct {
	Iterations int     // blur factor
	Radius     float64 // Gaussian sigma in pixels

	// OnIteration, when set, is called after each completed iteration.
	OnIteration func(done, total int)
}

func New(iterations int, radius float64) *Diffuser {
	return &Diffuser{Iterations: iterations, Radius: radius}
}

// Apply mutates canvas in place. Each iteration blurs the current canvas
// into a fresh copy, then overwrites only the deadspace pixels from it, so
// covered pixels keep their original values. The mask is never updated.
// ctx is checked between iterations.
func (d *Diffuser) Apply(ctx context.Context, canvas *model.Canvas, mask *model.DeadspaceMask) error {
	if d.Iterations <= 0 || d.Radius <= 0 {
		return nil
	}
	offsets := mask.Offsets()
	if len(offsets) == 0 {
		// Nothing to overwrite; the blur would be discarded every time.
		return nil
	}

	pix := canvas.Pixels
	for i := 0; i < d.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		blurred := imaging.Blur(pix, d.Radius)
		copyMasked(pix, blurred, mask.Width(), offsets)
		if d.OnIteration != nil {
			d.OnIteration(i+1, d.Iterations)
		}
	}
	return nil
}

// copyMasked copies the pixels at the given row-major offsets from src to
// dst. Both images start at the origin and share dimensions.
func copyMasked(dst, src *image.NRGBA, width int, offsets []int) {
	for _, off := range offsets {
		x, y := off%width, off/width
		di := dst.PixOffset(x, y)
		si := src.PixOffset(x, y)
		copy(dst.Pix[di:di+4], src.Pix[si:si+4])
	}
}
