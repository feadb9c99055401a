package engine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/scripttaste/internal/model"
)

func poster(label string, w, h int) model.Poster {
	return model.Poster{ID: label, Label: label, Image: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func TestNew_SelectsStrategy(t *testing.T) {
	assert.IsType(t, &MaxRects{}, New(model.AlgorithmMaxRects))
	assert.IsType(t, &Genetic{}, New(model.AlgorithmGenetic))
	assert.IsType(t, &MaxRects{}, New(""))
}

func TestSortBySize_StableOnTies(t *testing.T) {
	posters := []model.Poster{
		poster("small", 10, 10),
		poster("tieA", 20, 10),
		poster("big", 30, 30),
		poster("tieB", 10, 20),
	}

	sorted := SortBySize(posters)

	labels := make([]string, len(sorted))
	for i, p := range sorted {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"big", "tieA", "tieB", "small"}, labels)
	assert.Equal(t, "small", posters[0].Label, "input is not reordered")
}

func TestPlace_PairsPostersWithPositions(t *testing.T) {
	posters := []model.Poster{poster("B", 71, 71), poster("A", 100, 100)}

	placements := Place(posters, NewMaxRects())

	require.Len(t, placements, 2)
	assert.Equal(t, "A", placements[0].Poster.Label)
	assert.Equal(t, 0, placements[0].X)
	assert.Equal(t, 0, placements[0].Y)
	assert.Equal(t, "B", placements[1].Poster.Label)
	assert.False(t, placements[0].Bounds().Overlaps(placements[1].Bounds()))
}

func TestPlace_Empty(t *testing.T) {
	assert.Nil(t, Place(nil, NewMaxRects()))
}

func TestBoundingBox(t *testing.T) {
	sizes := []image.Point{{X: 10, Y: 20}, {X: 5, Y: 5}}
	positions := []image.Point{{X: 0, Y: 0}, {X: 10, Y: 18}}
	assert.Equal(t, image.Pt(15, 23), BoundingBox(sizes, positions))
	assert.Equal(t, image.Point{}, BoundingBox(nil, nil))
}
