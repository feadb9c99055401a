package model

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput marks a WeightedImage that breaks the data-supply contract.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSettings marks a CollageSettings value outside its allowed range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// WeightedImage is a decoded poster paired with the time invested in the show.
type WeightedImage struct {
	ID     string
	Label  string
	Weight float64 // minutes watched; only positivity and ordering matter
	Image  image.Image
}

// Width returns the pixel width of the source image.
func (w WeightedImage) Width() int {
	if w.Image == nil {
		return 0
	}
	return w.Image.Bounds().Dx()
}

// Height returns the pixel height of the source image.
func (w WeightedImage) Height() int {
	if w.Image == nil {
		return 0
	}
	return w.Image.Bounds().Dy()
}

// Area returns width*height of the source image.
func (w WeightedImage) Area() int {
	return w.Width() * w.Height()
}

// Validate checks the data-supply preconditions: a positive finite weight
// and a non-empty image.
func (w WeightedImage) Validate() error {
	if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) || w.Weight <= 0 {
		return fmt.Errorf("%w: %q has non-positive weight %v", ErrInvalidInput, w.Label, w.Weight)
	}
	if w.Image == nil {
		return fmt.Errorf("%w: %q has no image", ErrInvalidInput, w.Label)
	}
	if w.Area() <= 0 {
		return fmt.Errorf("%w: %q has a zero-area image", ErrInvalidInput, w.Label)
	}
	return nil
}

// Poster is a rescaled image whose area encodes its relative weight.
type Poster struct {
	ID     string
	Label  string
	Weight float64
	Image  *image.NRGBA
}

func (p Poster) Width() int  { return p.Image.Bounds().Dx() }
func (p Poster) Height() int { return p.Image.Bounds().Dy() }

// Size returns the poster dimensions as a point.
func (p Poster) Size() image.Point {
	return image.Pt(p.Width(), p.Height())
}

// Area returns the poster area in pixels.
func (p Poster) Area() int {
	return p.Width() * p.Height()
}

// Placement is a poster positioned on the canvas by its top-left corner.
type Placement struct {
	Poster Poster
	X      int
	Y      int
}

// Bounds returns the canvas rectangle covered by the placement.
func (p Placement) Bounds() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Poster.Width(), p.Y+p.Poster.Height())
}

// Skipped records a poster dropped from the collage and why.
type Skipped struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason"`
}

// Entry is one row of a collage manifest: a show and its poster file.
type Entry struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Weight    float64 `json:"weight"`     // minutes invested
	ImagePath string  `json:"image_path"` // absolute or relative to the manifest
}

func NewEntry(label string, weight float64, imagePath string) Entry {
	return Entry{
		ID:        uuid.New().String()[:8],
		Label:     label,
		Weight:    weight,
		ImagePath: imagePath,
	}
}

// Algorithm represents the packing strategy to use.
type Algorithm string

const (
	AlgorithmMaxRects Algorithm = "maxrects" // Maximal rectangles over candidate strip widths (fast)
	AlgorithmGenetic  Algorithm = "genetic"  // Genetic search over packing order (slower, sometimes tighter)
)

// Algorithms lists every supported packing strategy.
var Algorithms = []Algorithm{AlgorithmMaxRects, AlgorithmGenetic}

// ParseAlgorithm converts a name into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown algorithm %q (must be 'maxrects' or 'genetic')", ErrInvalidSettings, s)
}

// CollageSettings holds the tunables of the collage pipeline.
type CollageSettings struct {
	Algorithm  Algorithm `json:"algorithm" toml:"algorithm"`     // Packing strategy
	BlurFactor int       `json:"blur_factor" toml:"blur_factor"` // Diffusion iterations
	BlurRadius float64   `json:"blur_radius" toml:"blur_radius"` // Gaussian sigma in pixels
	Background RGB       `json:"background" toml:"background"`   // Canvas fill before diffusion
	Margin     int       `json:"margin" toml:"margin"`           // Extra rows/columns past the tightest bound
	Workers    int       `json:"workers" toml:"workers"`         // Resize parallelism, 0 = GOMAXPROCS
}

func DefaultSettings() CollageSettings {
	return CollageSettings{
		Algorithm:  AlgorithmMaxRects,
		BlurFactor: 100,
		BlurRadius: 5,
		Background: White,
		Margin:     1,
		Workers:    0,
	}
}

// Validate reports the first setting outside its allowed range.
func (s CollageSettings) Validate() error {
	if _, err := ParseAlgorithm(string(s.Algorithm)); err != nil {
		return err
	}
	if s.BlurFactor < 0 {
		return fmt.Errorf("%w: blur factor must be non-negative, got %d", ErrInvalidSettings, s.BlurFactor)
	}
	if math.IsNaN(s.BlurRadius) || s.BlurRadius <= 0 {
		return fmt.Errorf("%w: blur radius must be positive, got %v", ErrInvalidSettings, s.BlurRadius)
	}
	if s.Margin < 0 {
		return fmt.Errorf("%w: margin must be non-negative, got %d", ErrInvalidSettings, s.Margin)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidSettings, s.Workers)
	}
	return nil
}

// Project ties a manifest and its settings together for save/load.
type Project struct {
	Name     string          `json:"name"`
	Entries  []Entry         `json:"entries"`
	Settings CollageSettings `json:"settings"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Entries:  []Entry{},
		Settings: DefaultSettings(),
	}
}
