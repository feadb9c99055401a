package engine

import (
	"image"
	"math"
	"sort"
)

// FitHeuristic selects the free rectangle a piece is placed into.
type FitHeuristic int

const (
	FitBestArea   FitHeuristic = iota // Smallest leftover area in the chosen free rect
	FitBottomLeft                     // Lowest top edge, then leftmost
)

// defaultWidthFactors scale sqrt(total area) into candidate strip widths.
var defaultWidthFactors = []float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.35, 1.5, 1.75, 2.0}

// MaxRects packs rectangles into a strip of fixed width and unbounded
// height using the maximal rectangles free-list. Several strip widths and
// fit heuristics are tried. Among the layouts close to the smallest
// bounding area the squarest is kept.
type MaxRects struct {
	Heuristics   []FitHeuristic
	WidthFactors []float64
}

func NewMaxRects() *MaxRects {
	return &MaxRects{
		Heuristics:   []FitHeuristic{FitBestArea, FitBottomLeft},
		WidthFactors: defaultWidthFactors,
	}
}

// Pack places sizes in the given order and returns the best layout found.
func (m *MaxRects) Pack(sizes []image.Point) []image.Point {
	positions, _ := m.pack(sizes, candidateWidths(sizes, m.WidthFactors))
	return positions
}

// layout is one candidate packing and its bounding box.
type layout struct {
	positions []image.Point
	bbox      image.Point
	width     int
}

// pack tries every (width, heuristic) pair and keeps the best layout.
func (m *MaxRects) pack(sizes []image.Point, widths []int) ([]image.Point, image.Point) {
	if len(sizes) == 0 {
		return nil, image.Point{}
	}

	heuristics := m.Heuristics
	if len(heuristics) == 0 {
		heuristics = []FitHeuristic{FitBestArea}
	}

	candidates := make([]layout, 0, len(widths)*len(heuristics))
	for _, w := range widths {
		for _, h := range heuristics {
			positions := packStrip(sizes, w, h)
			candidates = append(candidates, layout{positions: positions, bbox: BoundingBox(sizes, positions), width: w})
		}
	}
	best := pickLayout(candidates)
	return best.positions, best.bbox
}

// areaSlackPercent is how far above the smallest bounding area a layout may
// be and still win on squareness.
const areaSlackPercent = 2

// pickLayout returns the squarest layout whose bounding area is within
// areaSlackPercent of the smallest one. Candidates must not be empty.
func pickLayout(candidates []layout) layout {
	minArea := candidates[0].bbox.X * candidates[0].bbox.Y
	for _, c := range candidates[1:] {
		minArea = minInt(minArea, c.bbox.X*c.bbox.Y)
	}

	found := false
	var best layout
	for _, c := range candidates {
		if c.bbox.X*c.bbox.Y*100 > minArea*(100+areaSlackPercent) {
			continue
		}
		if !found || tighter(c, best) {
			best = c
			found = true
		}
	}
	return best
}

// tighter orders near-equal layouts by the longer bounding side (squarer
// wins), then by bounding area, then by strip width.
func tighter(a, b layout) bool {
	as, bs := maxInt(a.bbox.X, a.bbox.Y), maxInt(b.bbox.X, b.bbox.Y)
	if as != bs {
		return as < bs
	}
	aa, ba := a.bbox.X*a.bbox.Y, b.bbox.X*b.bbox.Y
	if aa != ba {
		return aa < ba
	}
	return a.width < b.width
}

// candidateWidths returns the sorted, de-duplicated strip widths to try.
// Every width lies between the widest piece and the sum of all widths.
func candidateWidths(sizes []image.Point, factors []float64) []int {
	if len(sizes) == 0 {
		return nil
	}
	maxW, sumW := 0, 0
	for _, s := range sizes {
		sumW += s.X
		if s.X > maxW {
			maxW = s.X
		}
	}
	base := math.Sqrt(float64(totalArea(sizes)))

	seen := map[int]bool{maxW: true, sumW: true}
	widths := []int{maxW, sumW}
	for _, f := range factors {
		w := int(math.Ceil(base * f))
		if w < maxW {
			w = maxW
		}
		if w > sumW {
			w = sumW
		}
		if !seen[w] {
			seen[w] = true
			widths = append(widths, w)
		}
	}
	sort.Ints(widths)
	return widths
}

// packStrip packs sizes in order into a strip of the given width. The strip
// is as tall as all pieces stacked, so every piece always fits.
func packStrip(sizes []image.Point, width int, heuristic FitHeuristic) []image.Point {
	height := 0
	for _, s := range sizes {
		height += s.Y
	}
	packer := newMaxRectsPacker(width, height, heuristic)

	positions := make([]image.Point, len(sizes))
	bottom := 0
	for i, s := range sizes {
		ok, x, y := packer.insert(s.X, s.Y)
		if !ok {
			// Below the lowest placed piece the strip is always free.
			x, y = 0, bottom
			packer.splitAroundPlacement(rect{x: x, y: y, w: s.X, h: s.Y})
		}
		positions[i] = image.Pt(x, y)
		if y+s.Y > bottom {
			bottom = y + s.Y
		}
	}
	return positions
}

// maxRectsPacker implements the maximal rectangles bin-packing algorithm.
// It maintains a list of free rectangles and splits every one the placed
// piece overlaps.
type maxRectsPacker struct {
	freeRects []rect
	heuristic FitHeuristic
}

type rect struct {
	x, y, w, h int
}

func newMaxRectsPacker(width, height int, heuristic FitHeuristic) *maxRectsPacker {
	return &maxRectsPacker{
		freeRects: []rect{{0, 0, width, height}},
		heuristic: heuristic,
	}
}

// insert tries to place a piece of given dimensions. Returns success and position.
func (mp *maxRectsPacker) insert(w, h int) (bool, int, int) {
	bestIdx := mp.bestFit(w, h)
	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := mp.freeRects[bestIdx]
	px, py := chosen.x, chosen.y

	mp.splitAroundPlacement(rect{x: px, y: py, w: w, h: h})
	return true, px, py
}

// bestFit returns the index of the free rect the heuristic prefers for a
// w x h piece, or -1 if it fits nowhere. Ties keep the earliest rect.
func (mp *maxRectsPacker) bestFit(w, h int) int {
	bestIdx := -1
	bestPrimary, bestSecondary := 0, 0

	for i, r := range mp.freeRects {
		if w > r.w || h > r.h {
			continue
		}
		var primary, secondary int
		switch mp.heuristic {
		case FitBottomLeft:
			primary, secondary = r.y+h, r.x
		default:
			primary = r.w*r.h - w*h
			secondary = minInt(r.w-w, r.h-h)
		}
		if bestIdx < 0 || primary < bestPrimary || (primary == bestPrimary && secondary < bestSecondary) {
			bestIdx = i
			bestPrimary, bestSecondary = primary, secondary
		}
	}
	return bestIdx
}

// splitAroundPlacement removes all free rects that overlap with the placed rect
// and generates maximal sub-rects from each overlap. Then prunes contained rects.
func (mp *maxRectsPacker) splitAroundPlacement(placed rect) {
	var newRects []rect

	for _, r := range mp.freeRects {
		if !rectsOverlap(r, placed) {
			newRects = append(newRects, r)
			continue
		}

		// Left strip (full height of original rect)
		if placed.x > r.x {
			newRects = append(newRects, rect{
				x: r.x, y: r.y,
				w: placed.x - r.x, h: r.h,
			})
		}
		// Right strip (full height of original rect)
		if placed.x+placed.w < r.x+r.w {
			newRects = append(newRects, rect{
				x: placed.x + placed.w, y: r.y,
				w: (r.x + r.w) - (placed.x + placed.w), h: r.h,
			})
		}
		// Top strip (full width of original rect)
		if placed.y > r.y {
			newRects = append(newRects, rect{
				x: r.x, y: r.y,
				w: r.w, h: placed.y - r.y,
			})
		}
		// Bottom strip (full width of original rect)
		if placed.y+placed.h < r.y+r.h {
			newRects = append(newRects, rect{
				x: r.x, y: placed.y + placed.h,
				w: r.w, h: (r.y + r.h) - (placed.y + placed.h),
			})
		}
	}

	mp.freeRects = pruneContained(newRects)
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// pruneContained removes any rect that is fully contained within another.
// Of two identical rects the first one is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if a != b || j < i {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x && outer.y <= inner.y &&
		outer.x+outer.w >= inner.x+inner.w &&
		outer.y+outer.h >= inner.y+inner.h
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
