// Package normalize rescales posters so that their on-canvas area is
// proportional to the time invested in the corresponding show.
package normalize

import (
	"fmt"
	"image"
	"math"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/scripttaste/internal/model"
)

// Normalizer resizes weighted images into posters.
type Normalizer struct {
	// Workers bounds the number of concurrent resizes. 0 means GOMAXPROCS.
	Workers int
	// Filter is the resampling filter; the zero value selects Lanczos.
	Filter imaging.ResampleFilter
}

func New(workers int) *Normalizer {
	return &Normalizer{Workers: workers, Filter: imaging.Lanczos}
}

// Normalize rescales every image relative to the largest weight and the
// largest source area in the set.
//
// Area is scaled by maxArea/area * weight/maxWeight, so each side is scaled
// by the square root of that ratio. The final area of every poster is then
// maxArea*weight/maxWeight, i.e. proportional to its weight.
//
// Images that would shrink below one pixel in either dimension are dropped
// and returned in the skipped list. Results keep the input order.
func (n *Normalizer) Normalize(images []model.WeightedImage) ([]model.Poster, []model.Skipped, error) {
	if len(images) == 0 {
		return nil, nil, nil
	}
	for _, img := range images {
		if err := img.Validate(); err != nil {
			return nil, nil, err
		}
	}

	maxWeight, maxArea := Extremes(images)

	// Work out target sizes first so dropped images never reach the resizer.
	sizes := make([]image.Point, len(images))
	kept := make([]bool, len(images))
	for i, img := range images {
		sizes[i], kept[i] = Scale(img, maxWeight, maxArea)
	}

	resized := make([]*image.NRGBA, len(images))
	g := new(errgroup.Group)
	g.SetLimit(n.workers())
	for i := range images {
		if !kept[i] {
			continue
		}
		g.Go(func() error {
			resized[i] = n.resize(images[i].Image, sizes[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var posters []model.Poster
	var skipped []model.Skipped
	for i, img := range images {
		if !kept[i] {
			skipped = append(skipped, model.Skipped{
				ID:     img.ID,
				Label:  img.Label,
				Weight: img.Weight,
				Reason: fmt.Sprintf("scaled size %dx%d is below one pixel", sizes[i].X, sizes[i].Y),
			})
			continue
		}
		posters = append(posters, model.Poster{
			ID:     img.ID,
			Label:  img.Label,
			Weight: img.Weight,
			Image:  resized[i],
		})
	}
	return posters, skipped, nil
}

// Extremes returns the largest weight and the largest source area in the set.
func Extremes(images []model.WeightedImage) (maxWeight float64, maxArea int) {
	for _, img := range images {
		if img.Weight > maxWeight {
			maxWeight = img.Weight
		}
		if a := img.Area(); a > maxArea {
			maxArea = a
		}
	}
	return maxWeight, maxArea
}

// Scale computes the target size of one image. The width is scaled by
// sqrt(maxArea/area * weight/maxWeight) and rounded; the height follows from
// the rounded width and the source aspect ratio. ok is false when either
// dimension rounds below one pixel.
func Scale(img model.WeightedImage, maxWeight float64, maxArea int) (size image.Point, ok bool) {
	w, h := img.Width(), img.Height()
	areaNormRatio := float64(maxArea) / float64(w*h)
	weightNormRatio := img.Weight / maxWeight
	t := math.Sqrt(areaNormRatio * weightNormRatio)

	newW := int(math.Round(t * float64(w)))
	newH := int(math.Round(float64(newW) * float64(h) / float64(w)))
	size = image.Pt(newW, newH)
	return size, newW >= 1 && newH >= 1
}

func (n *Normalizer) resize(src image.Image, size image.Point) *image.NRGBA {
	filter := n.Filter
	if filter.Support == 0 && filter.Kernel == nil {
		filter = imaging.Lanczos
	}
	out := imaging.Resize(src, size.X, size.Y, filter)
	return opaque(out)
}

func (n *Normalizer) workers() int {
	if n.Workers > 0 {
		return n.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// opaque forces full alpha so posters composite as plain RGB.
func opaque(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}
