package engine

import (
	"image"
	"sort"

	"github.com/piwi3910/scripttaste/internal/model"
)

// Packer assigns non-overlapping top-left positions to rectangles.
// Positions are returned in the order of the input sizes, and the same
// ordered input always yields the same positions.
type Packer interface {
	Pack(sizes []image.Point) []image.Point
}

// New returns the packer for the given algorithm.
func New(algorithm model.Algorithm) Packer {
	if algorithm == model.AlgorithmGenetic {
		return NewGenetic(DefaultGeneticConfig())
	}
	return NewMaxRects()
}

// SortBySize returns a copy of posters sorted by area descending.
// Posters of equal area keep their input order.
func SortBySize(posters []model.Poster) []model.Poster {
	sorted := make([]model.Poster, len(posters))
	copy(sorted, posters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})
	return sorted
}

// Place sorts posters largest first, packs them and pairs each poster with
// its position.
func Place(posters []model.Poster, packer Packer) []model.Placement {
	if len(posters) == 0 {
		return nil
	}
	sorted := SortBySize(posters)
	sizes := make([]image.Point, len(sorted))
	for i, p := range sorted {
		sizes[i] = p.Size()
	}

	positions := packer.Pack(sizes)

	placements := make([]model.Placement, len(sorted))
	for i, p := range sorted {
		placements[i] = model.Placement{Poster: p, X: positions[i].X, Y: positions[i].Y}
	}
	return placements
}

// BoundingBox returns the tightest (width, height) enclosing every rectangle.
func BoundingBox(sizes, positions []image.Point) image.Point {
	var bb image.Point
	for i, s := range sizes {
		if x := positions[i].X + s.X; x > bb.X {
			bb.X = x
		}
		if y := positions[i].Y + s.Y; y > bb.Y {
			bb.Y = y
		}
	}
	return bb
}

// totalArea sums the areas of all sizes.
func totalArea(sizes []image.Point) int {
	area := 0
	for _, s := range sizes {
		area += s.X * s.Y
	}
	return area
}
