// Package analysis computes structural metrics over the derived similarity
// graph: degree, PageRank, density, and connected components. The sidebar
// shows these for the selected recommendation. Metrics are recomputed once
// per derive pass, never per frame.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/model"
)

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// Insights holds the metrics for one similarity graph.
type Insights struct {
	order   int
	size    int
	density float64

	degree     map[string]int
	pagerank   map[string]float64
	components [][]string
}

// Compute builds the metrics for the given recommendations and their
// similarity edges. Recommendations without edges still count toward order,
// density, and components (as singletons).
func Compute(recs []model.Recommendation, edges []derive.WeightedEdge) *Insights {
	ins := &Insights{
		order:    len(recs),
		degree:   make(map[string]int, len(recs)),
		pagerank: make(map[string]float64, len(recs)),
	}
	if len(recs) == 0 {
		return ins
	}

	ids := make(map[string]int64, len(recs))
	handles := make([]string, len(recs))
	und := simple.NewWeightedUndirectedGraph(0, 0)
	dir := simple.NewDirectedGraph()
	for i, r := range recs {
		id := int64(i)
		ids[r.Handle] = id
		handles[i] = r.Handle
		und.AddNode(simple.Node(id))
		dir.AddNode(simple.Node(id))
	}

	for _, e := range edges {
		a, ok := ids[e.A]
		if !ok {
			continue
		}
		b, ok := ids[e.B]
		if !ok {
			continue
		}
		ins.size++
		ins.degree[e.A]++
		ins.degree[e.B]++
		und.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(a), T: simple.Node(b), W: float64(e.Weight),
		})
		// PageRank wants arcs; mirror each undirected edge.
		dir.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
		dir.SetEdge(simple.Edge{F: simple.Node(b), T: simple.Node(a)})
	}

	if n := len(recs); n > 1 {
		ins.density = 2 * float64(ins.size) / float64(n*(n-1))
	}

	for id, score := range network.PageRank(dir, pageRankDamping, pageRankTolerance) {
		ins.pagerank[handles[id]] = score
	}

	for _, comp := range topo.ConnectedComponents(und) {
		members := make([]string, len(comp))
		for i, n := range comp {
			members[i] = handles[n.ID()]
		}
		sort.Strings(members)
		ins.components = append(ins.components, members)
	}
	sort.Slice(ins.components, func(i, j int) bool {
		if len(ins.components[i]) != len(ins.components[j]) {
			return len(ins.components[i]) > len(ins.components[j])
		}
		return ins.components[i][0] < ins.components[j][0]
	})
	return ins
}

// Order is the node count, Size the edge count.
func (ins *Insights) Order() int { return ins.order }
func (ins *Insights) Size() int  { return ins.size }

// Density is the realized fraction of possible similarity edges.
func (ins *Insights) Density() float64 { return ins.density }

// Degree returns the similarity degree for handle.
func (ins *Insights) Degree(handle string) int { return ins.degree[handle] }

// PageRank returns the score for handle and whether it is known.
func (ins *Insights) PageRank(handle string) (float64, bool) {
	score, ok := ins.pagerank[handle]
	return score, ok
}

// Components returns connected components, largest first, members sorted.
func (ins *Insights) Components() [][]string { return ins.components }

// ComponentOf returns the members of handle's component, or nil.
func (ins *Insights) ComponentOf(handle string) []string {
	for _, comp := range ins.components {
		for _, h := range comp {
			if h == handle {
				return comp
			}
		}
	}
	return nil
}

// TopByPageRank returns up to n handles by descending score, ties broken by
// handle for stable display.
func (ins *Insights) TopByPageRank(n int) []string {
	handles := make([]string, 0, len(ins.pagerank))
	for h := range ins.pagerank {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		si, sj := ins.pagerank[handles[i]], ins.pagerank[handles[j]]
		if si != sj {
			return si > sj
		}
		return handles[i] < handles[j]
	})
	if len(handles) > n {
		handles = handles[:n]
	}
	return handles
}
