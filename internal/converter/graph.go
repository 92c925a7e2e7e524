package converter

import (
	"fmt"
	"math"
	"slices"

	"fxconvert/internal/domain"
)

// Edge is a direct rate arriving at some vertex: 1 unit of From is worth Rate units of it.
type Edge struct {
	From int
	Rate float64
}

// RateGraph is a sparse directed graph of exchange rates keyed by currency id.
// Every edge i->j is stored together with its reciprocal j->i. Not safe for concurrent use.
type RateGraph struct {
	out map[int]map[int]float64
	in  map[int]map[int]float64
}

func NewRateGraph() *RateGraph {
	return &RateGraph{
		out: make(map[int]map[int]float64),
		in:  make(map[int]map[int]float64),
	}
}

func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRate, rate)
	}
	return nil
}

// SetEdge stores rate for i->j and 1/rate for j->i, overwriting previous values.
func (g *RateGraph) SetEdge(i, j int, rate float64) error {
	if err := ValidateRate(rate); err != nil {
		return err
	}
	g.put(i, j, rate)
	g.put(j, i, 1/rate)
	return nil
}

func (g *RateGraph) put(i, j int, rate float64) {
	if g.out[i] == nil {
		g.out[i] = make(map[int]float64)
	}
	if g.in[j] == nil {
		g.in[j] = make(map[int]float64)
	}
	g.out[i][j] = rate
	g.in[j][i] = rate
}

func (g *RateGraph) HasEdge(i, j int) bool {
	_, ok := g.out[i][j]
	return ok
}

func (g *RateGraph) GetEdge(i, j int) (float64, bool) {
	rate, ok := g.out[i][j]
	return rate, ok
}

// Neighbors returns every edge arriving at j ordered by source id.
func (g *RateGraph) Neighbors(j int) []Edge {
	edges := make([]Edge, 0, len(g.in[j]))
	for from, rate := range g.in[j] {
		edges = append(edges, Edge{From: from, Rate: rate})
	}
	slices.SortFunc(edges, func(a, b Edge) int { return a.From - b.From })
	return edges
}

// Len is the number of directed edges.
func (g *RateGraph) Len() int {
	n := 0
	for _, m := range g.out {
		n += len(m)
	}
	return n
}

func (g *RateGraph) Clear() {
	clear(g.out)
	clear(g.in)
}
