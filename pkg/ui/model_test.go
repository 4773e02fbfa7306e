package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubgraph/hubgraph/pkg/config"
	"github.com/hubgraph/hubgraph/pkg/model"
)

func testGraph() *model.GraphData {
	hubs := make([]string, 6)
	nodes := []model.GraphNode{
		{Handle: "center", Name: "Center", Kind: model.KindCenter, Followers: 50_000},
	}
	var edges []model.GraphEdge
	for i := range hubs {
		hubs[i] = fmt.Sprintf("hub%d", i)
		nodes = append(nodes, model.GraphNode{
			Handle: hubs[i], Kind: model.KindHub, Followers: 20_000,
		})
		edges = append(edges, model.GraphEdge{
			Source: "center", Target: model.Ref(hubs[i]), Kind: model.EdgeCenterFollowsHub,
		})
	}
	recs := []model.Recommendation{
		{Handle: "r1", Name: "R One", Followers: 9_000, HubCount: 5, FollowedBy: hubs[:5]},
		{Handle: "r2", Name: "R Two", Followers: 12_000, HubCount: 5, FollowedBy: hubs[:5]},
		{Handle: "rbig", Name: "R Big", Followers: 2_000_000, HubCount: 5, FollowedBy: hubs[:5]},
	}
	for _, r := range recs {
		nodes = append(nodes, model.GraphNode{
			Handle: r.Handle, Kind: model.KindRecommendation,
			Followers: r.Followers, HubCount: r.HubCount,
		})
		for _, h := range r.FollowedBy {
			edges = append(edges, model.GraphEdge{
				Source: model.Ref(h), Target: model.Ref(r.Handle), Kind: model.EdgeHubFollowsRecommended,
			})
		}
	}
	return &model.GraphData{
		Nodes: nodes, Edges: edges, Recommendations: recs,
		Stats: model.Stats{HubsFetched: len(hubs), RecommendationCount: len(recs)},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UI.HideMainstream = true
	return New(cfg, testGraph(), nil, nil, nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestZeroSizeWindowDefersLayoutUntilRealSize(t *testing.T) {
	m := newTestModel(t)
	if m.layoutCount != 0 {
		t.Fatalf("layout ran before any WindowSizeMsg: count=%d", m.layoutCount)
	}

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 0, Height: 0})
	if m.layoutCount != 0 {
		t.Fatalf("layout ran on 0x0 window: count=%d", m.layoutCount)
	}
	if cmd != nil {
		t.Fatal("0x0 resize should not schedule work")
	}
	if m.ready {
		t.Fatal("model marked ready at 0x0")
	}

	m, cmd = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.layoutCount != 1 {
		t.Fatalf("deferred layout should run exactly once, got %d", m.layoutCount)
	}
	if cmd == nil {
		t.Fatal("real resize should start the tick loop")
	}
	if !m.ready {
		t.Fatal("model not ready after real size")
	}
}

func TestResizeRelayoutsEachTime(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.layoutCount != 2 {
		t.Fatalf("two real resizes should relayout twice, got %d", m.layoutCount)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	stale := m.gen

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.gen == stale {
		t.Fatal("relayout did not bump the generation")
	}

	_, cmd := update(t, m, tickMsg{gen: stale})
	if cmd != nil {
		t.Fatal("stale tick should be ignored, got a follow-up command")
	}
}

func TestTickLoopRunsUntilSettled(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	var cmd tea.Cmd
	for i := 0; i < 5000; i++ {
		m, cmd = update(t, m, tickMsg{gen: m.gen})
		if cmd == nil {
			break
		}
	}
	if cmd != nil {
		t.Fatal("simulation never settled")
	}
	if !m.engines[ViewSimilarity].Settled() {
		t.Fatal("active engine still unsettled after tick loop ended")
	}
	if !m.autoFitted[ViewSimilarity] {
		t.Fatal("settling should auto-fit the viewport once")
	}
	if m.vps[ViewSimilarity].Scale <= 0 {
		t.Fatalf("auto-fit produced scale %v", m.vps[ViewSimilarity].Scale)
	}
}

func TestSelectionToggle(t *testing.T) {
	m := newTestModel(t)
	m.toggleSelection("r1")
	if m.selectedID != "r1" {
		t.Fatalf("selectedID = %q, want r1", m.selectedID)
	}
	m.toggleSelection("r1")
	if m.selectedID != "" {
		t.Fatalf("re-selecting the same node should clear, got %q", m.selectedID)
	}
	m.toggleSelection("r1")
	m.toggleSelection("r2")
	if m.selectedID != "r2" {
		t.Fatalf("selecting another node should replace, got %q", m.selectedID)
	}
}

func TestMainstreamToggleRederivesAndRelayouts(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if len(m.fs.Recommendations) != 2 {
		t.Fatalf("hidden-mainstream set has %d recs, want 2", len(m.fs.Recommendations))
	}
	before := m.layoutCount

	m, cmd := update(t, m, key("m"))
	if len(m.fs.Recommendations) != 3 {
		t.Fatalf("full set has %d recs, want 3", len(m.fs.Recommendations))
	}
	if m.layoutCount != before+1 {
		t.Fatalf("filter toggle should relayout once, count went %d -> %d", before, m.layoutCount)
	}
	if cmd == nil {
		t.Fatal("filter toggle should restart the tick loop")
	}
}

func TestMainstreamToggleClearsFilteredSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, key("m"))
	m.toggleSelection("rbig")

	m, _ = update(t, m, key("m"))
	if m.selectedID != "" {
		t.Fatalf("selection on a filtered-out node should clear, got %q", m.selectedID)
	}
}

func TestReloadPreservesSurvivingSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.toggleSelection("r1")

	m, _ = update(t, m, reloadDoneMsg{data: testGraph()})
	if m.selectedID != "r1" {
		t.Fatalf("selection should survive reload while the node exists, got %q", m.selectedID)
	}

	smaller := testGraph()
	smaller.Nodes = smaller.Nodes[:len(smaller.Nodes)-3]
	smaller.Recommendations = nil
	m, _ = update(t, m, reloadDoneMsg{data: smaller})
	if m.selectedID != "" {
		t.Fatalf("selection should clear when the node is gone, got %q", m.selectedID)
	}
}

func TestReloadErrorKeepsData(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	nodes := len(m.fs.Nodes)

	m, _ = update(t, m, reloadDoneMsg{err: fmt.Errorf("parse graph.json: boom")})
	if len(m.fs.Nodes) != nodes {
		t.Fatal("failed reload must not replace the working set")
	}
	if m.status == "" {
		t.Fatal("failed reload should surface a status message")
	}
}

func TestViewSwitchingKeys(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	cases := []struct {
		key  string
		want View
	}{
		{"2", ViewHubCluster},
		{"3", ViewBipartite},
		{"4", ViewTiers},
		{"5", ViewPeople},
		{"1", ViewSimilarity},
	}
	for _, tc := range cases {
		m, _ = update(t, m, key(tc.key))
		if m.view != tc.want {
			t.Fatalf("key %q: view = %v, want %v", tc.key, m.view, tc.want)
		}
	}

	for i := 0; i < numGraphViews+1; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.view != ViewSimilarity {
		t.Fatalf("tab cycle of all views should wrap, ended on %v", m.view)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, key("?"))
	if m.view != ViewHelp {
		t.Fatalf("view = %v, want help", m.view)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ViewSimilarity {
		t.Fatalf("esc should leave help, view = %v", m.view)
	}
}

func TestViewRendersAllScreens(t *testing.T) {
	m := newTestModel(t)
	if m.View() == "" {
		t.Fatal("pre-size View should render a loading placeholder")
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	for v := ViewSimilarity; v <= ViewHelp; v++ {
		m.view = v
		if m.View() == "" {
			t.Fatalf("view %v rendered empty", v)
		}
	}
}

func TestPeopleViewFilterAndSort(t *testing.T) {
	people := []model.Person{
		{Name: "Ada", Handle: "ada", Country: "UK", Credibility: 9.1, Categories: []string{"math"}},
		{Name: "Grace", Handle: "grace", Country: "US", Credibility: 8.0, Categories: []string{"systems"}},
		{Name: "Alan", Handle: "alan", Country: "UK", Credibility: 9.5, Categories: []string{"math", "crypto"}},
	}
	pv := newPeopleView(people)

	// Default sort is credibility descending.
	if got := pv.filtered[0].Handle; got != "alan" {
		t.Fatalf("top row = %q, want alan", got)
	}

	pv.search.SetValue("math")
	pv.rebuild()
	if len(pv.filtered) != 2 {
		t.Fatalf("category filter matched %d rows, want 2", len(pv.filtered))
	}

	pv.search.SetValue("US")
	pv.rebuild()
	if len(pv.filtered) != 1 || pv.filtered[0].Handle != "grace" {
		t.Fatalf("country filter got %+v", pv.filtered)
	}

	pv.search.SetValue("")
	pv.sortField = sortByName
	pv.sortDesc = false
	pv.rebuild()
	if pv.filtered[0].Handle != "ada" {
		t.Fatalf("name ascending top row = %q, want ada", pv.filtered[0].Handle)
	}
}

func TestBipartiteEdgesRenderOnlyForHoveredNode(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, key("3"))
	m.hoverID = ""

	if strings.Contains(m.View(), "·") {
		t.Error("bipartite rendered its full edge set with nothing hovered")
	}

	m.hoverID = "hub0"
	out := m.View()
	if !strings.Contains(out, "•") {
		t.Error("hovered node's incident edges missing")
	}

	m, _ = update(t, m, key("e"))
	if !strings.Contains(m.View(), "·") {
		t.Error("e should reveal the full edge set")
	}
}
