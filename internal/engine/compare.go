package engine

import (
	"fmt"
	"image"

	"github.com/piwi3910/scripttaste/internal/model"
)

// ComparisonScenario defines a named packing strategy to compare.
type ComparisonScenario struct {
	Name   string
	Packer Packer
}

// ComparisonResult holds the layout and computed statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Positions    []image.Point
	Width        int
	Height       int
	BoundingArea int
	UsedArea     int
	WastePercent float64
}

// Efficiency returns the covered share of the bounding box as a percentage.
func (r ComparisonResult) Efficiency() float64 {
	return 100.0 - r.WastePercent
}

// CompareScenarios packs the same ordered sizes with every scenario and
// returns the results in scenario order. This enables side-by-side
// comparison of packing strategies for one collage.
func CompareScenarios(scenarios []ComparisonScenario, sizes []image.Point) []ComparisonResult {
	return CompareScenariosFunc(scenarios, sizes, nil)
}

// CompareScenariosFunc is CompareScenarios with a callback invoked after
// each scenario finishes. onDone may be nil.
func CompareScenariosFunc(scenarios []ComparisonScenario, sizes []image.Point, onDone func(i int, r ComparisonResult)) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))
	used := totalArea(sizes)

	for _, scenario := range scenarios {
		positions := scenario.Packer.Pack(sizes)
		bbox := BoundingBox(sizes, positions)
		boundingArea := bbox.X * bbox.Y

		waste := 0.0
		if boundingArea > 0 {
			waste = 100.0 * float64(boundingArea-used) / float64(boundingArea)
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Positions:    positions,
			Width:        bbox.X,
			Height:       bbox.Y,
			BoundingArea: boundingArea,
			UsedArea:     used,
			WastePercent: waste,
		})
		if onDone != nil {
			onDone(len(results)-1, results[len(results)-1])
		}
	}

	return results
}

// Best returns the index of the result with the smallest bounding area.
// Ties keep the earlier scenario. It returns -1 for no results.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.BoundingArea < results[best].BoundingArea {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current algorithm, varying the strategy to show what-if alternatives.
func BuildDefaultScenarios(current model.Algorithm) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   fmt.Sprintf("Current (%s)", current),
			Packer: New(current),
		},
	}

	// Scenario: Try the other algorithm
	if current == model.AlgorithmGenetic {
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "MaxRects",
			Packer: New(model.AlgorithmMaxRects),
		})
	} else {
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Genetic",
			Packer: New(model.AlgorithmGenetic),
		})
	}

	// Scenarios: a single fit heuristic each
	scenarios = append(scenarios,
		ComparisonScenario{
			Name:   "Best Area Fit only",
			Packer: &MaxRects{Heuristics: []FitHeuristic{FitBestArea}, WidthFactors: defaultWidthFactors},
		},
		ComparisonScenario{
			Name:   "Bottom-Left only",
			Packer: &MaxRects{Heuristics: []FitHeuristic{FitBottomLeft}, WidthFactors: defaultWidthFactors},
		},
	)

	// Scenario: a square-ish strip only
	scenarios = append(scenarios, ComparisonScenario{
		Name:   "Square strip",
		Packer: &MaxRects{Heuristics: []FitHeuristic{FitBestArea, FitBottomLeft}, WidthFactors: []float64{1.0}},
	})

	return scenarios
}
