package engine

import (
	"image"
	"testing"
)

func makeTestConfig() GeneticConfig {
	c := DefaultGeneticConfig()
	c.PopulationSize = 10
	c.Generations = 6
	return c
}

func TestGeneticPlacesAllPiecesWithoutOverlap(t *testing.T) {
	sizes := randomSizes(25, 3)

	positions := NewGenetic(makeTestConfig()).Pack(sizes)

	assertNoOverlap(t, sizes, positions)
}

func TestGeneticNeverLooserThanMaxRects(t *testing.T) {
	sizes := randomSizes(20, 5)

	greedy := NewMaxRects().Pack(sizes)
	genetic := NewGenetic(makeTestConfig()).Pack(sizes)

	gb := BoundingBox(sizes, greedy)
	ga := BoundingBox(sizes, genetic)
	if ga.X*ga.Y > gb.X*gb.Y {
		t.Errorf("genetic bounding area %d is larger than maxrects %d", ga.X*ga.Y, gb.X*gb.Y)
	}
}

func TestGeneticDeterministic(t *testing.T) {
	sizes := randomSizes(15, 9)

	first := NewGenetic(makeTestConfig()).Pack(sizes)
	second := NewGenetic(makeTestConfig()).Pack(sizes)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("position %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestGeneticSmallInputsFallBackToMaxRects(t *testing.T) {
	sizes := []image.Point{{X: 100, Y: 100}, {X: 71, Y: 71}}

	got := NewGenetic(makeTestConfig()).Pack(sizes)
	want := NewMaxRects().Pack(sizes)

	if len(got) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestOrderCrossoverProducesPermutation(t *testing.T) {
	ga := newGeneticOptimizer(makeTestConfig(), NewMaxRects(), randomSizes(12, 1))
	p1 := chromosome{genes: ga.rng.Perm(12)}
	p2 := chromosome{genes: ga.rng.Perm(12)}

	for i := 0; i < 20; i++ {
		child := ga.orderCrossover(p1, p2)
		ga.mutate(&child)

		seen := make(map[int]bool)
		for _, g := range child.genes {
			if g < 0 || g >= 12 || seen[g] {
				t.Fatalf("child %v is not a permutation", child.genes)
			}
			seen[g] = true
		}
	}
}

func TestScaledConfigShrinksLargeSearches(t *testing.T) {
	base := DefaultGeneticConfig()

	tests := []struct {
		n           int
		generations int
		population  int
	}{
		{n: 20, generations: base.Generations, population: base.PopulationSize},
		{n: 50, generations: 20, population: base.PopulationSize},
		{n: 100, generations: 10, population: base.PopulationSize},
		{n: 200, generations: 5, population: 12},
	}
	for _, tt := range tests {
		got := scaledConfig(base, tt.n)
		if got.Generations != tt.generations || got.PopulationSize != tt.population {
			t.Errorf("n=%d: got %d generations x %d, want %d x %d",
				tt.n, got.Generations, got.PopulationSize, tt.generations, tt.population)
		}
	}
}
