// Package layout turns filtered snapshot data into 2D positions. Four
// engines share one contract: two are force-simulated (similarity,
// hub-cluster), one is seeded by a bounded simulation and then frozen
// (bipartite rings), and one is closed-form (concentric tiers). Positions
// are owned by the active engine; nothing else mutates them.
package layout

import (
	"math"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// Body is one positioned node. Velocity fields are only meaningful while a
// simulation is running. A Fixed body is under direct pointer control and
// skips integration.
type Body struct {
	Handle   string
	Name     string
	Kind     model.NodeKind
	HubCount int

	X, Y   float64
	VX, VY float64
	Radius float64

	// Avatar reports whether the renderer should show profile imagery for
	// this body. The tiers engine suppresses it for low-signal outer-ring
	// nodes to control clutter.
	Avatar bool

	Fixed bool
}

// Segment is a renderable edge between two placed bodies.
type Segment struct {
	A, B   string
	X1, Y1 float64
	X2, Y2 float64
	Weight int
}

// Node radii per kind. Recommendation radii scale with hub_count between
// recRadiusMin and recRadiusMax.
const (
	centerRadius = 26.0
	hubRadius    = 14.0
	recRadiusMin = 8.0
	recRadiusMax = 20.0
)

// radiusFor derives the rendered radius from kind and hub_count.
func radiusFor(kind model.NodeKind, hubCount int) float64 {
	switch kind {
	case model.KindCenter:
		return centerRadius
	case model.KindHub:
		return hubRadius
	default:
		// Scale across the plausible hub_count range, clamped.
		t := (float64(hubCount) - 20) / 40
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		return recRadiusMin + t*(recRadiusMax-recRadiusMin)
	}
}

// bodyAt returns the topmost body whose radius covers (x, y), or nil.
// Later bodies win so whatever drew last is what the pointer grabs.
func bodyAt(bodies []*Body, x, y float64) *Body {
	for i := len(bodies) - 1; i >= 0; i-- {
		b := bodies[i]
		dx, dy := x-b.X, y-b.Y
		if math.Hypot(dx, dy) <= b.Radius {
			return b
		}
	}
	return nil
}

// segmentsFor resolves weighted edges against placed bodies. Edges whose
// endpoints did not produce bodies are skipped.
func segmentsFor(edges []weightedPair, byHandle map[string]*Body) []Segment {
	segs := make([]Segment, 0, len(edges))
	for _, e := range edges {
		a, ok := byHandle[e.A]
		if !ok {
			continue
		}
		b, ok := byHandle[e.B]
		if !ok {
			continue
		}
		segs = append(segs, Segment{
			A: e.A, B: e.B,
			X1: a.X, Y1: a.Y,
			X2: b.X, Y2: b.Y,
			Weight: e.Weight,
		})
	}
	return segs
}

type weightedPair struct {
	A, B   string
	Weight int
}
