package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// graphFixture builds a small dataset with a center, hubs, and
// recommendations wired so every engine has something to place.
func graphFixture() *model.GraphData {
	data := &model.GraphData{
		Nodes: []model.GraphNode{
			{Handle: "center", Name: "Center", Kind: model.KindCenter, Followers: 3_000_000},
		},
	}
	for i := 0; i < 6; i++ {
		h := fmt.Sprintf("h%d", i)
		data.Nodes = append(data.Nodes, model.GraphNode{Handle: h, Kind: model.KindHub, Followers: 50_000})
		data.Edges = append(data.Edges, model.GraphEdge{
			Source: "center", Target: model.Ref(h), Kind: model.EdgeCenterFollowsHub,
		})
	}
	// Two similar recommendations sharing five hubs, one loner, one
	// mainstream account.
	shared := []string{"h0", "h1", "h2", "h3", "h4"}
	data.Recommendations = []model.Recommendation{
		{Handle: "r1", HubCount: 45, Followers: 10_000, FollowedBy: shared},
		{Handle: "r2", HubCount: 42, Followers: 20_000, FollowedBy: append([]string{"h5"}, shared...)},
		{Handle: "r3", HubCount: 22, Followers: 30_000, FollowedBy: []string{"h5"}},
		{Handle: "r_big", HubCount: 31, Followers: 2_000_000, FollowedBy: shared},
	}
	for _, r := range data.Recommendations {
		data.Nodes = append(data.Nodes, model.GraphNode{
			Handle: r.Handle, Kind: model.KindRecommendation,
			Followers: r.Followers, HubCount: r.HubCount,
		})
	}
	return data
}

func settleEngine(t *testing.T, e Engine) {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if !e.Step() {
			return
		}
	}
	t.Fatalf("%s engine never settled", e.Name())
}

func TestEnginesHandleHundredNodesZeroEdges(t *testing.T) {
	data := &model.GraphData{}
	for i := 0; i < 100; i++ {
		h := fmt.Sprintf("r%03d", i)
		data.Nodes = append(data.Nodes, model.GraphNode{
			Handle: h, Kind: model.KindRecommendation, Followers: 100, HubCount: 20 + i%30,
		})
		data.Recommendations = append(data.Recommendations, model.Recommendation{
			Handle: h, HubCount: 20 + i%30,
		})
	}
	fs := derive.Filter(data, false)

	engines := []Engine{NewSimilarity(), NewHubCluster(), NewBipartite(), NewTiers()}
	for _, e := range engines {
		t.Run(e.Name(), func(t *testing.T) {
			e.SetData(fs, 800, 600)
			settleEngine(t, e)
			if !e.Settled() {
				t.Error("engine not settled after stepping")
			}
			for _, b := range e.Bodies() {
				if math.IsNaN(b.X) || math.IsNaN(b.Y) {
					t.Fatalf("body %s has NaN position", b.Handle)
				}
			}
		})
	}
}

func TestSimilarityEngineEdges(t *testing.T) {
	e := NewSimilarity()
	e.SetData(derive.Filter(graphFixture(), false), 800, 600)

	segs := e.Segments()
	if len(segs) != 3 {
		// r1-r2, r1-r_big, r2-r_big all share five hubs.
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	for _, s := range segs {
		if s.Weight < derive.MinSharedFollowers {
			t.Errorf("segment %s-%s weight %d below threshold", s.A, s.B, s.Weight)
		}
	}

	// Mainstream filter removes r_big and its edges without disturbing the
	// rest.
	e.SetData(derive.Filter(graphFixture(), true), 800, 600)
	for _, b := range e.Bodies() {
		if b.Handle == "r_big" {
			t.Error("mainstream recommendation still placed")
		}
	}
	if segs := e.Segments(); len(segs) != 1 {
		t.Errorf("got %d segments after filter, want 1 (r1-r2)", len(segs))
	}
}

func TestHubClusterPlacesCenterInnermost(t *testing.T) {
	e := NewHubCluster()
	e.SetData(derive.Filter(graphFixture(), false), 800, 600)
	settleEngine(t, e)

	var center *Body
	var hubDist float64
	var hubs int
	for _, b := range e.Bodies() {
		d := math.Hypot(b.X-400, b.Y-300)
		switch b.Kind {
		case model.KindCenter:
			center = b
			if d > 60 {
				t.Errorf("center drifted %v from layout middle", d)
			}
		case model.KindHub:
			hubDist += d
			hubs++
		}
	}
	if center == nil {
		t.Fatal("center body missing")
	}
	if hubs == 0 {
		t.Fatal("no hub bodies placed")
	}
	if avg := hubDist / float64(hubs); avg < 60 {
		t.Errorf("hubs sit at average distance %v, want a ring well outside the center", avg)
	}
}

func TestHubClusterHidesMainstreamHubs(t *testing.T) {
	data := graphFixture()
	data.Nodes = append(data.Nodes, model.GraphNode{
		Handle: "h_big", Kind: model.KindHub, Followers: 5_000_000,
	})

	e := NewHubCluster()
	e.SetData(derive.Filter(data, true), 800, 600)
	for _, b := range e.Bodies() {
		if b.Handle == "h_big" {
			t.Error("mainstream hub should be hidden in the hub-cluster view")
		}
	}

	e.SetData(derive.Filter(data, false), 800, 600)
	found := false
	for _, b := range e.Bodies() {
		if b.Handle == "h_big" {
			found = true
		}
	}
	if !found {
		t.Error("hub missing with the filter off")
	}
}

func TestBipartiteRingsAndAdjacency(t *testing.T) {
	e := NewBipartite()
	e.SetData(derive.Filter(graphFixture(), false), 800, 600)

	// Seeding is synchronous and bounded; afterwards the engine is frozen.
	if e.Step() {
		t.Error("bipartite engine should not request further ticks")
	}

	var hubAvg, recAvg float64
	var hubs, recs int
	for _, b := range e.Bodies() {
		d := math.Hypot(b.X-400, b.Y-300)
		if b.Kind == model.KindHub {
			hubAvg += d
			hubs++
		} else {
			recAvg += d
			recs++
		}
	}
	if hubs == 0 || recs == 0 {
		t.Fatalf("missing ring members: %d hubs, %d recs", hubs, recs)
	}
	if hubAvg/float64(hubs) >= recAvg/float64(recs) {
		t.Errorf("hub ring (%v) should sit inside recommendation ring (%v)",
			hubAvg/float64(hubs), recAvg/float64(recs))
	}

	segs := e.Segments()
	for _, i := range e.IncidentEdges("r1") {
		s := segs[i]
		if s.A != "r1" && s.B != "r1" {
			t.Errorf("incident edge %d (%s-%s) does not touch r1", i, s.A, s.B)
		}
	}
	if len(e.IncidentEdges("r1")) != 5 {
		t.Errorf("r1 has %d incident edges, want 5", len(e.IncidentEdges("r1")))
	}
}

func TestBipartiteDragMovesOnlyDraggedBody(t *testing.T) {
	e := NewBipartite()
	e.SetData(derive.Filter(graphFixture(), false), 800, 600)

	before := make(map[string][2]float64)
	for _, b := range e.Bodies() {
		before[b.Handle] = [2]float64{b.X, b.Y}
	}

	e.BeginDrag("r1")
	e.DragTo(50, 50)
	e.EndDrag()

	for _, b := range e.Bodies() {
		was := before[b.Handle]
		if b.Handle == "r1" {
			if b.X != 50 || b.Y != 50 {
				t.Errorf("dragged body at (%v, %v), want (50, 50)", b.X, b.Y)
			}
			continue
		}
		if b.X != was[0] || b.Y != was[1] {
			t.Errorf("undragged body %s moved", b.Handle)
		}
	}
}

func TestForceEngineDragReheats(t *testing.T) {
	e := NewSimilarity()
	e.SetData(derive.Filter(graphFixture(), false), 800, 600)
	settleEngine(t, e)

	e.BeginDrag("r1")
	if !e.Step() {
		t.Error("drag should re-energize the simulation")
	}
	e.DragTo(10, 10)
	e.EndDrag()
	settleEngine(t, e)
	if !e.Settled() {
		t.Error("engine never cooled after drag release")
	}
}

func TestEngineHitTest(t *testing.T) {
	e := NewTiers()
	e.SetData(derive.Filter(graphFixture(), false), 800, 600)

	for _, b := range e.Bodies() {
		got := e.NodeAt(b.X, b.Y)
		if got == nil {
			t.Fatalf("hit test missed body %s at its own position", b.Handle)
		}
	}
	if e.NodeAt(-10_000, -10_000) != nil {
		t.Error("hit test far outside the scene should miss")
	}
}
