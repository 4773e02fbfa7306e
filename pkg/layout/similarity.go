package layout

import (
	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// Similarity lays out recommendation nodes linked by shared-follower
// overlap. Heavier overlap pulls pairs tighter: link rest distance shrinks
// and strength grows with edge weight.
type Similarity struct {
	sim      *Simulation
	bodies   []*Body
	byHandle map[string]*Body
	edges    []derive.WeightedEdge
	drag     dragState
}

func NewSimilarity() *Similarity { return &Similarity{} }

func (e *Similarity) Name() string { return "similarity" }

func (e *Similarity) SetData(fs derive.FilteredSet, width, height float64) {
	prev := e.byHandle
	e.bodies = e.bodies[:0]
	e.byHandle = make(map[string]*Body)
	for _, n := range fs.Nodes {
		if n.Kind != model.KindRecommendation {
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
		// Carry positions across filter toggles so the scene does not jump.
		if old, ok := prev[n.Handle]; ok {
			b.X, b.Y = old.X, old.Y
		}
		e.bodies = append(e.bodies, b)
		e.byHandle[n.Handle] = b
	}

	e.edges = derive.SimilarityEdges(fs.Recommendations)
	links := make([]Link, 0, len(e.edges))
	index := make(map[string]int, len(e.bodies))
	for i, b := range e.bodies {
		index[b.Handle] = i
	}
	for _, ed := range e.edges {
		i, ok := index[ed.A]
		if !ok {
			continue
		}
		j, ok := index[ed.B]
		if !ok {
			continue
		}
		links = append(links, Link{
			I: i, J: j,
			Distance: similarityLinkDistance(ed.Weight),
			Strength: similarityLinkStrength(ed.Weight),
		})
	}

	e.sim = NewSimulation(e.bodies, links, DefaultConfig(), width, height)
	e.drag = dragState{}
}

// similarityLinkDistance shortens the rest length as overlap grows so
// heavily-similar pairs cluster tighter.
func similarityLinkDistance(weight int) float64 {
	d := 160 - 8*float64(weight)
	if d < 40 {
		d = 40
	}
	return d
}

func similarityLinkStrength(weight int) float64 {
	s := 0.05 * float64(weight) / derive.MinSharedFollowers
	if s > 0.25 {
		s = 0.25
	}
	return s
}

func (e *Similarity) Step() bool {
	if e.sim == nil {
		return false
	}
	return e.sim.Step()
}

func (e *Similarity) Settled() bool { return e.sim == nil || e.sim.Settled() }

func (e *Similarity) Bodies() []*Body { return e.bodies }

func (e *Similarity) Segments() []Segment {
	pairs := make([]weightedPair, len(e.edges))
	for i, ed := range e.edges {
		pairs[i] = weightedPair{A: ed.A, B: ed.B, Weight: ed.Weight}
	}
	return segmentsFor(pairs, e.byHandle)
}

func (e *Similarity) NodeAt(x, y float64) *Body { return bodyAt(e.bodies, x, y) }

func (e *Similarity) BeginDrag(handle string) {
	if e.drag.begin(e.bodies, handle) != nil && e.sim != nil {
		e.sim.Reheat()
	}
}

func (e *Similarity) DragTo(x, y float64) { e.drag.moveTo(x, y) }

func (e *Similarity) EndDrag() {
	e.drag.end()
	if e.sim != nil {
		e.sim.Release()
	}
}
