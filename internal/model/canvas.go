package model

import "image"

// Canvas is the collage pixel buffer.
type Canvas struct {
	Pixels *image.NRGBA
}

func (c *Canvas) Width() int  { return c.Pixels.Bounds().Dx() }
func (c *Canvas) Height() int { return c.Pixels.Bounds().Dy() }

// DeadspaceMask marks canvas pixels that no placement covers.
type DeadspaceMask struct {
	width  int
	height int
	cells  []bool
}

// NewDeadspaceMask returns a mask with every cell marked as deadspace.
func NewDeadspaceMask(width, height int) *DeadspaceMask {
	cells := make([]bool, width*height)
	for i := range cells {
		cells[i] = true
	}
	return &DeadspaceMask{width: width, height: height, cells: cells}
}

func (m *DeadspaceMask) Width() int  { return m.width }
func (m *DeadspaceMask) Height() int { return m.height }

// At reports whether (x, y) is deadspace. Out-of-range coordinates are not.
func (m *DeadspaceMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.cells[y*m.width+x]
}

// Set marks (x, y) as deadspace or covered.
func (m *DeadspaceMask) Set(x, y int, dead bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.cells[y*m.width+x] = dead
}

// Cover marks every cell inside r as covered.
func (m *DeadspaceMask) Cover(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, m.width, m.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.cells[y*m.width : (y+1)*m.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = false
		}
	}
}

// Count returns the number of deadspace cells.
func (m *DeadspaceMask) Count() int {
	n := 0
	for _, dead := range m.cells {
		if dead {
			n++
		}
	}
	return n
}

// Offsets returns the row-major index of every deadspace cell.
func (m *DeadspaceMask) Offsets() []int {
	offsets := make([]int, 0, m.Count())
	for i, dead := range m.cells {
		if dead {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
