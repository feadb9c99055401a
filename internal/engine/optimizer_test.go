package engine

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSizes returns n reproducible poster-like sizes.
func randomSizes(n int, seed int64) []image.Point {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]image.Point, n)
	for i := range sizes {
		w := 10 + rng.Intn(120)
		h := 10 + rng.Intn(160)
		sizes[i] = image.Pt(w, h)
	}
	return sizes
}

// assertNoOverlap fails if any two placed rectangles intersect.
func assertNoOverlap(t *testing.T, sizes, positions []image.Point) {
	t.Helper()
	require.Len(t, positions, len(sizes))
	rects := make([]image.Rectangle, len(sizes))
	for i, s := range sizes {
		require.GreaterOrEqual(t, positions[i].X, 0)
		require.GreaterOrEqual(t, positions[i].Y, 0)
		rects[i] = image.Rectangle{Min: positions[i], Max: positions[i].Add(s)}
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				t.Fatalf("rect %d %v overlaps rect %d %v", i, rects[i], j, rects[j])
			}
		}
	}
}

func TestMaxRects_Empty(t *testing.T) {
	assert.Nil(t, NewMaxRects().Pack(nil))
}

func TestMaxRects_SinglePiece(t *testing.T) {
	positions := NewMaxRects().Pack([]image.Point{{X: 30, Y: 40}})
	require.Len(t, positions, 1)
	assert.Equal(t, image.Pt(0, 0), positions[0])
}

func TestMaxRects_ExampleScenario(t *testing.T) {
	sizes := []image.Point{{X: 100, Y: 100}, {X: 71, Y: 71}}

	positions := NewMaxRects().Pack(sizes)

	assertNoOverlap(t, sizes, positions)
	assert.Equal(t, image.Pt(0, 0), positions[0], "largest piece goes first at the origin")
	bb := BoundingBox(sizes, positions)
	assert.Equal(t, 17100, bb.X*bb.Y)
	assert.True(t, bb == image.Pt(100, 171) || bb == image.Pt(171, 100), "unexpected bounding box %v", bb)
}

func TestMaxRects_PerfectSquare(t *testing.T) {
	sizes := []image.Point{{X: 50, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 50}}

	positions := NewMaxRects().Pack(sizes)

	assertNoOverlap(t, sizes, positions)
	assert.Equal(t, image.Pt(100, 100), BoundingBox(sizes, positions))
}

func TestMaxRects_NoOverlapRandom(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		sizes := randomSizes(40, seed)
		positions := NewMaxRects().Pack(sizes)
		assertNoOverlap(t, sizes, positions)

		bb := BoundingBox(sizes, positions)
		assert.GreaterOrEqual(t, bb.X*bb.Y, totalArea(sizes))
	}
}

func TestMaxRects_Deterministic(t *testing.T) {
	sizes := randomSizes(30, 7)
	first := NewMaxRects().Pack(sizes)
	second := NewMaxRects().Pack(sizes)
	assert.Equal(t, first, second)
}

func TestMaxRects_ReasonablyTight(t *testing.T) {
	sizes := randomSizes(60, 11)
	positions := NewMaxRects().Pack(sizes)

	bb := BoundingBox(sizes, positions)
	efficiency := float64(totalArea(sizes)) / float64(bb.X*bb.Y)
	assert.Greater(t, efficiency, 0.6, "bounding box should not be mostly waste")
}

func TestCandidateWidths(t *testing.T) {
	sizes := []image.Point{{X: 100, Y: 100}, {X: 71, Y: 71}}
	widths := candidateWidths(sizes, defaultWidthFactors)

	require.NotEmpty(t, widths)
	assert.Equal(t, 100, widths[0], "narrowest candidate is the widest piece")
	assert.Equal(t, 171, widths[len(widths)-1], "widest candidate is a single row")
	for i := 1; i < len(widths); i++ {
		assert.Less(t, widths[i-1], widths[i], "widths are sorted and unique")
	}
}

func TestMaxRectsPacker_BottomLeftPrefersLowestEdge(t *testing.T) {
	mp := newMaxRectsPacker(100, 100, FitBottomLeft)
	mp.freeRects = []rect{
		{x: 0, y: 40, w: 20, h: 20},
		{x: 50, y: 0, w: 50, h: 100},
	}
	ok, x, y := mp.insert(10, 10)
	require.True(t, ok)
	assert.Equal(t, 50, x)
	assert.Equal(t, 0, y)
}

func TestMaxRectsPacker_BestAreaPrefersSmallestLeftover(t *testing.T) {
	mp := newMaxRectsPacker(100, 100, FitBestArea)
	mp.freeRects = []rect{
		{x: 50, y: 0, w: 50, h: 100},
		{x: 0, y: 40, w: 20, h: 20},
	}
	ok, x, y := mp.insert(10, 10)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 40, y)
}

func TestMaxRectsPacker_RejectsOversize(t *testing.T) {
	mp := newMaxRectsPacker(50, 50, FitBestArea)
	ok, _, _ := mp.insert(60, 10)
	assert.False(t, ok)
}

func TestSplitAroundPlacement(t *testing.T) {
	mp := newMaxRectsPacker(100, 100, FitBestArea)
	mp.splitAroundPlacement(rect{x: 0, y: 0, w: 40, h: 30})

	assert.ElementsMatch(t, []rect{
		{x: 40, y: 0, w: 60, h: 100},
		{x: 0, y: 30, w: 100, h: 70},
	}, mp.freeRects)
}

func TestPruneContained(t *testing.T) {
	rects := []rect{
		{x: 0, y: 0, w: 10, h: 10},
		{x: 2, y: 2, w: 3, h: 3},
		{x: 0, y: 0, w: 10, h: 10},
		{x: 20, y: 0, w: 5, h: 5},
	}
	kept := pruneContained(rects)
	assert.Equal(t, []rect{{x: 0, y: 0, w: 10, h: 10}, {x: 20, y: 0, w: 5, h: 5}}, kept)
}

func TestRectsOverlap_TouchingIsNotOverlap(t *testing.T) {
	a := rect{x: 0, y: 0, w: 10, h: 10}
	assert.False(t, rectsOverlap(a, rect{x: 10, y: 0, w: 5, h: 5}))
	assert.False(t, rectsOverlap(a, rect{x: 0, y: 10, w: 5, h: 5}))
	assert.True(t, rectsOverlap(a, rect{x: 9, y: 9, w: 5, h: 5}))
}

func TestPickLayout_PrefersSquareWithinSlack(t *testing.T) {
	tall := layout{bbox: image.Pt(216, 7445), width: 216}     // 1608120
	square := layout{bbox: image.Pt(1270, 1280), width: 1270} // 1625600, about 1.1% larger
	wide := layout{bbox: image.Pt(1400, 1400), width: 1400}   // 1960000, far outside the slack

	best := pickLayout([]layout{tall, wide, square})
	assert.Equal(t, square.bbox, best.bbox)
}

func TestPickLayout_SmallestAreaWinsOutsideSlack(t *testing.T) {
	strip := layout{bbox: image.Pt(100, 1000), width: 100} // 100000
	square := layout{bbox: image.Pt(330, 330), width: 330} // 108900, about 9% larger

	best := pickLayout([]layout{square, strip})
	assert.Equal(t, strip.bbox, best.bbox)
}

func TestPickLayout_EqualSidesFallBackToWidth(t *testing.T) {
	a := layout{bbox: image.Pt(171, 100), width: 171}
	b := layout{bbox: image.Pt(100, 171), width: 100}

	assert.Equal(t, b.bbox, pickLayout([]layout{a, b}).bbox)
}
