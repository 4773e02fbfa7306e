package layout

import (
	"math"

	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// HubCluster lays out the center account and its hubs. Hubs link to the
// center with short, strong springs and to each other with co-follow
// springs whose pull grows with joint-follow weight. A radial force holds
// the center innermost and hubs on a mid ring. Unlike the general rule,
// this view hides mainstream hub nodes; the co-follow derivation still runs
// over the full recommendation list.
type HubCluster struct {
	sim      *Simulation
	bodies   []*Body
	byHandle map[string]*Body
	edges    []derive.WeightedEdge
	primary  []weightedPair
	drag     dragState
}

func NewHubCluster() *HubCluster { return &HubCluster{} }

func (e *HubCluster) Name() string { return "hubcluster" }

func (e *HubCluster) SetData(fs derive.FilteredSet, width, height float64) {
	prev := e.byHandle
	e.bodies = e.bodies[:0]
	e.byHandle = make(map[string]*Body)
	for _, n := range fs.Nodes {
		switch n.Kind {
		case model.KindCenter:
		case model.KindHub:
			if fs.HideMainstream && n.Followers >= derive.MainstreamFollowers {
				continue
			}
		default:
			continue
		}
		b := &Body{
			Handle: n.Handle,
			Name:   n.Name,
			Kind:   n.Kind,
			Radius: radiusFor(n.Kind, n.HubCount),
			Avatar: true,
		}
		if old, ok := prev[n.Handle]; ok {
			b.X, b.Y = old.X, old.Y
		}
		e.bodies = append(e.bodies, b)
		e.byHandle[n.Handle] = b
	}

	index := make(map[string]int, len(e.bodies))
	for i, b := range e.bodies {
		index[b.Handle] = i
	}

	var links []Link
	e.primary = e.primary[:0]
	for _, ge := range fs.Edges {
		if ge.Kind != model.EdgeCenterFollowsHub {
			continue
		}
		i, ok := index[ge.Source.String()]
		if !ok {
			continue
		}
		j, ok := index[ge.Target.String()]
		if !ok {
			continue
		}
		// Primary spokes: short and strong so hubs stay anchored.
		links = append(links, Link{I: i, J: j, Distance: 110, Strength: 0.4})
		e.primary = append(e.primary, weightedPair{A: ge.Source.String(), B: ge.Target.String()})
	}

	e.edges = nil
	for _, ed := range derive.CoFollowEdges(fs.AllRecommendations) {
		i, ok := index[ed.A]
		if !ok {
			continue
		}
		j, ok := index[ed.B]
		if !ok {
			continue
		}
		e.edges = append(e.edges, ed)
		links = append(links, Link{
			I: i, J: j,
			Distance: coFollowLinkDistance(ed.Weight),
			Strength: coFollowLinkStrength(ed.Weight),
		})
	}

	cfg := DefaultConfig()
	ring := math.Min(width, height) * 0.32
	cfg.RadialStrength = 0.08
	cfg.RadialTarget = func(b *Body) float64 {
		if b.Kind == model.KindCenter {
			return 0
		}
		return ring
	}
	e.sim = NewSimulation(e.bodies, links, cfg, width, height)
	e.drag = dragState{}
}

func coFollowLinkDistance(weight int) float64 {
	d := 200 - 4*float64(weight)
	if d < 60 {
		d = 60
	}
	return d
}

func coFollowLinkStrength(weight int) float64 {
	s := 0.03 * float64(weight) / derive.MinCoFollowWeight
	if s > 0.2 {
		s = 0.2
	}
	return s
}

func (e *HubCluster) Step() bool {
	if e.sim == nil {
		return false
	}
	return e.sim.Step()
}

func (e *HubCluster) Settled() bool { return e.sim == nil || e.sim.Settled() }

func (e *HubCluster) Bodies() []*Body { return e.bodies }

func (e *HubCluster) Segments() []Segment {
	pairs := make([]weightedPair, 0, len(e.primary)+len(e.edges))
	pairs = append(pairs, e.primary...)
	for _, ed := range e.edges {
		pairs = append(pairs, weightedPair{A: ed.A, B: ed.B, Weight: ed.Weight})
	}
	return segmentsFor(pairs, e.byHandle)
}

func (e *HubCluster) NodeAt(x, y float64) *Body { return bodyAt(e.bodies, x, y) }

func (e *HubCluster) BeginDrag(handle string) {
	if e.drag.begin(e.bodies, handle) != nil && e.sim != nil {
		e.sim.Reheat()
	}
}

func (e *HubCluster) DragTo(x, y float64) { e.drag.moveTo(x, y) }

func (e *HubCluster) EndDrag() {
	e.drag.end()
	if e.sim != nil {
		e.sim.Release()
	}
}
