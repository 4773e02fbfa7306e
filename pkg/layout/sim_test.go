package layout

import (
	"math"
	"testing"

	"github.com/hubgraph/hubgraph/pkg/model"
)

func makeBodies(n int) []*Body {
	bodies := make([]*Body, n)
	for i := range bodies {
		bodies[i] = &Body{
			Handle: handleN("n", i),
			Kind:   model.KindRecommendation,
			Radius: 10,
		}
	}
	return bodies
}

func runToSettle(t *testing.T, s *Simulation) int {
	t.Helper()
	// Alpha decays geometrically, so settling is bounded; 2000 ticks is far
	// beyond what the decay rate needs.
	for i := 0; i < 2000; i++ {
		if !s.Step() {
			return i
		}
	}
	t.Fatal("simulation never settled")
	return 0
}

func TestSimulationSettlesWithoutEdges(t *testing.T) {
	bodies := makeBodies(100)
	s := NewSimulation(bodies, nil, DefaultConfig(), 800, 600)

	runToSettle(t, s)

	if !s.Settled() {
		t.Error("Settled() false after Step returned false")
	}
	for _, b := range bodies {
		if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) {
			t.Fatalf("body %s has non-finite position (%v, %v)", b.Handle, b.X, b.Y)
		}
	}
}

func TestSimulationSeedIsDeterministic(t *testing.T) {
	a := makeBodies(20)
	b := makeBodies(20)
	NewSimulation(a, nil, DefaultConfig(), 800, 600)
	NewSimulation(b, nil, DefaultConfig(), 800, 600)
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Fatalf("seed positions differ at %d: (%v,%v) vs (%v,%v)",
				i, a[i].X, a[i].Y, b[i].X, b[i].Y)
		}
	}
}

func TestSimulationLinkPullsPairTogether(t *testing.T) {
	bodies := makeBodies(2)
	bodies[0].X, bodies[0].Y = 100, 300
	bodies[1].X, bodies[1].Y = 700, 300
	cfg := DefaultConfig()
	cfg.Repulsion = 0
	cfg.CenterStrength = 0
	cfg.CollidePadding = -1
	links := []Link{{I: 0, J: 1, Distance: 100, Strength: 0.3}}
	s := NewSimulation(bodies, links, cfg, 800, 600)

	runToSettle(t, s)

	gap := math.Hypot(bodies[1].X-bodies[0].X, bodies[1].Y-bodies[0].Y)
	if gap >= 600 {
		t.Errorf("link never pulled pair together, gap still %v", gap)
	}
}

func TestSimulationReheatAndRelease(t *testing.T) {
	bodies := makeBodies(5)
	s := NewSimulation(bodies, nil, DefaultConfig(), 800, 600)
	runToSettle(t, s)

	s.Reheat()
	if s.Settled() {
		t.Fatal("reheated simulation reports settled")
	}
	if !s.Step() {
		t.Fatal("reheated simulation refuses to step")
	}

	s.Release()
	runToSettle(t, s)
	if !s.Settled() {
		t.Error("released simulation never cooled")
	}
}

func TestSimulationFixedBodyStaysPut(t *testing.T) {
	bodies := makeBodies(10)
	s := NewSimulation(bodies, nil, DefaultConfig(), 800, 600)
	pinned := bodies[3]
	pinned.Fixed = true
	pinned.X, pinned.Y = 123, 456

	for i := 0; i < 50; i++ {
		s.Step()
	}
	if pinned.X != 123 || pinned.Y != 456 {
		t.Errorf("fixed body moved to (%v, %v)", pinned.X, pinned.Y)
	}
}

func TestSimulationEmptyBodyList(t *testing.T) {
	s := NewSimulation(nil, nil, DefaultConfig(), 800, 600)
	runToSettle(t, s)
	if !s.Settled() {
		t.Error("empty simulation should settle")
	}
}

func handleN(prefix string, i int) string {
	return prefix + "_" + string(rune('a'+i%26)) + string(rune('a'+i/26))
}
