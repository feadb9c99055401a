// Package compose materializes a packed layout into a canvas and records
// which canvas pixels no poster covers.
package compose

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/piwi3910/scripttaste/internal/model"
)

// Size returns the canvas dimensions for the placements: the tightest
// bound plus margin extra columns and rows. No placements yield 1x1.
func Size(placements []model.Placement, margin int) image.Point {
	if len(placements) == 0 {
		return image.Pt(1, 1)
	}
	var bb image.Point
	for _, p := range placements {
		b := p.Bounds()
		if b.Max.X > bb.X {
			bb.X = b.Max.X
		}
		if b.Max.Y > bb.Y {
			bb.Y = b.Max.Y
		}
	}
	return bb.Add(image.Pt(margin, margin))
}

// Compose allocates a background-filled canvas, copies every poster to its
// position unchanged and returns the canvas with its deadspace mask.
func Compose(placements []model.Placement, background model.RGB, margin int) (*model.Canvas, *model.DeadspaceMask) {
	size := Size(placements, margin)
	pixels := imaging.New(size.X, size.Y, background.NRGBA())
	mask := model.NewDeadspaceMask(size.X, size.Y)

	for _, p := range placements {
		src := p.Poster.Image
		draw.Copy(pixels, image.Pt(p.X, p.Y), src, src.Bounds(), draw.Src, nil)
		mask.Cover(p.Bounds())
	}

	return &model.Canvas{Pixels: pixels}, mask
}
