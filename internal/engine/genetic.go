package engine

import (
	"image"
	"math/rand"
	"sort"
)

// GeneticConfig holds parameters for the genetic packing search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 24,
		Generations:    40,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// Genetic searches over the packing order. Each candidate order is decoded
// through MaxRects; fitness is the share of the bounding box covered by
// pieces. The given input order seeds the population, so the result is
// never looser than MaxRects on the same input.
type Genetic struct {
	Config  GeneticConfig
	Decoder *MaxRects
}

func NewGenetic(config GeneticConfig) *Genetic {
	return &Genetic{Config: config, Decoder: NewMaxRects()}
}

// Pack runs the genetic search and returns positions in input order.
func (g *Genetic) Pack(sizes []image.Point) []image.Point {
	if len(sizes) < 3 {
		return g.Decoder.Pack(sizes)
	}

	ga := newGeneticOptimizer(scaledConfig(g.Config, len(sizes)), g.Decoder, sizes)
	return ga.optimize()
}

// scaledConfig shrinks the search for larger collages, decoding dominates
// the cost.
func scaledConfig(config GeneticConfig, n int) GeneticConfig {
	if n > 40 {
		config.Generations = minInt(config.Generations, 20)
	}
	if n > 60 {
		config.Generations = minInt(config.Generations, 10)
	}
	if n > 150 {
		config.Generations = minInt(config.Generations, 5)
		config.PopulationSize = minInt(config.PopulationSize, 12)
	}
	return config
}

// chromosome represents a candidate solution: an ordering of pieces.
type chromosome struct {
	genes   []int // indices into the input sizes
	fitness float64
}

// geneticOptimizer implements the genetic algorithm for one Pack call.
type geneticOptimizer struct {
	config  GeneticConfig
	decoder *MaxRects
	sizes   []image.Point
	widths  []int
	area    int
	rng     *rand.Rand
}

func newGeneticOptimizer(config GeneticConfig, decoder *MaxRects, sizes []image.Point) *geneticOptimizer {
	return &geneticOptimizer{
		config:  config,
		decoder: decoder,
		sizes:   sizes,
		widths:  candidateWidths(sizes, decoder.WidthFactors),
		area:    totalArea(sizes),
		rng:     rand.New(rand.NewSource(config.Seed)),
	}
}

// optimize runs the genetic algorithm and returns the best layout.
func (g *geneticOptimizer) optimize() []image.Point {
	population := g.initPopulation()

	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		// Stable so equally fit chromosomes keep their position.
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := minInt(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})

	positions, _ := g.decode(population[0])
	return positions
}

// initPopulation creates the initial random population. The first
// chromosome keeps the input order.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.sizes)
	size := maxInt(g.config.PopulationSize, 1)
	population := make([]chromosome, size)

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	population[0] = chromosome{genes: identity}

	for i := 1; i < size; i++ {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}
	return population
}

// evaluate computes the fitness of a chromosome as the fraction of its
// bounding box covered by pieces.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	_, bbox := g.decode(c)
	boxArea := bbox.X * bbox.Y
	if boxArea == 0 {
		return 0
	}
	return float64(g.area) / float64(boxArea)
}

// decode packs the pieces in chromosome order and maps the positions back
// to input order.
func (g *geneticOptimizer) decode(c chromosome) ([]image.Point, image.Point) {
	ordered := make([]image.Point, len(c.genes))
	for i, idx := range c.genes {
		ordered[i] = g.sizes[idx]
	}

	packed, bbox := g.decoder.pack(ordered, g.widths)

	positions := make([]image.Point, len(g.sizes))
	for i, idx := range c.genes {
		positions[idx] = packed[i]
	}
	return positions, bbox
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	// Fill remaining positions with genes from parent2 in order
	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies random mutations to a chromosome.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	// Swap mutation: swap two random genes' positions
	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion mutation: reverse a small segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

// copyChromosome creates a deep copy of a chromosome.
func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
