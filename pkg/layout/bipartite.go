package layout

import (
	"math"

	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// maxSeedIterations bounds the synchronous pre-simulation that seeds the
// bipartite rings before first paint.
const maxSeedIterations = 300

// Bipartite places hubs on an inner ring and recommendations on an outer
// ring. A bounded radial-plus-collision simulation runs synchronously
// inside SetData and is then frozen; afterwards only a dragged body moves.
// Every recommendation connects to each hub in its followed_by list, but
// renderers are expected to emphasize only the hovered node's incident
// edges, found in O(degree) through the adjacency index.
type Bipartite struct {
	bodies   []*Body
	byHandle map[string]*Body
	edges    []derive.WeightedEdge
	adj      derive.Adjacency
	drag     dragState
}

func NewBipartite() *Bipartite { return &Bipartite{} }

func (e *Bipartite) Name() string { return "bipartite" }

func (e *Bipartite) SetData(fs derive.FilteredSet, width, height float64) {
	e.bodies = e.bodies[:0]
	e.byHandle = make(map[string]*Body)
	for _, n := range fs.Nodes {
		if n.Kind != model.KindHub && n.Kind != model.KindRecommendation {
			continue
		}
		b := &Body{
			Handle:   n.Handle,
			Name:     n.Name,
			Kind:     n.Kind,
			HubCount: n.HubCount,
			Radius:   radiusFor(n.Kind, n.HubCount),
			Avatar:   true,
		}
		e.bodies = append(e.bodies, b)
		e.byHandle[n.Handle] = b
	}

	e.edges = nil
	for _, ed := range derive.BuildBipartite(fs.Recommendations) {
		if _, ok := e.byHandle[ed.A]; !ok {
			continue
		}
		if _, ok := e.byHandle[ed.B]; !ok {
			continue
		}
		e.edges = append(e.edges, ed)
	}
	e.adj = derive.BuildAdjacency(e.edges)

	inner := math.Min(width, height) * 0.22
	outer := math.Min(width, height) * 0.42
	cfg := Config{
		Repulsion:      300,
		MaxInteraction: 150,
		CollidePadding: 2,
		RadialStrength: 0.3,
		RadialTarget: func(b *Body) float64 {
			if b.Kind == model.KindHub {
				return inner
			}
			return outer
		},
		Damping:    0.6,
		AlphaDecay: 0.05,
		AlphaMin:   0.005,
	}
	sim := NewSimulation(e.bodies, nil, cfg, width, height)
	for i := 0; i < maxSeedIterations && sim.Step(); i++ {
	}
	e.drag = dragState{}
}

// Step is a no-op: the layout is frozen after seeding.
func (e *Bipartite) Step() bool { return false }

func (e *Bipartite) Settled() bool { return true }

func (e *Bipartite) Bodies() []*Body { return e.bodies }

func (e *Bipartite) Segments() []Segment {
	pairs := make([]weightedPair, len(e.edges))
	for i, ed := range e.edges {
		pairs[i] = weightedPair{A: ed.A, B: ed.B, Weight: ed.Weight}
	}
	return segmentsFor(pairs, e.byHandle)
}

// IncidentEdges returns the indices (into Segments) of edges touching
// handle. Hover emphasis renders only these.
func (e *Bipartite) IncidentEdges(handle string) []int { return e.adj[handle] }

func (e *Bipartite) NodeAt(x, y float64) *Body { return bodyAt(e.bodies, x, y) }

// BeginDrag pins the body; there is no simulation to re-energize, the
// pointer simply repositions the one body and its incident edges.
func (e *Bipartite) BeginDrag(handle string) { e.drag.begin(e.bodies, handle) }

func (e *Bipartite) DragTo(x, y float64) { e.drag.moveTo(x, y) }

func (e *Bipartite) EndDrag() { e.drag.end() }
